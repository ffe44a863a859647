// Package command pairs an argument schema with the exit statuses an
// operation accepts, runs it through an injected runner and classifies the
// outcome.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thiagokokada/gitcmd/internal/git/args"
	"github.com/thiagokokada/gitcmd/internal/git/backend"
)

var (
	ErrInvalidExitRange = errors.New("invalid exit status range")
	ErrNoSchema         = errors.New("command has no argument schema")
)

// ExitRange is an inclusive range of accepted exit statuses.
type ExitRange struct {
	Min int
	Max int
}

func (r ExitRange) Contains(status int) bool {
	return status >= r.Min && status <= r.Max
}

func (r ExitRange) String() string {
	return fmt.Sprintf("%d..%d", r.Min, r.Max)
}

// Definition describes one git operation. It is immutable once created.
type Definition struct {
	name    string
	schema  *args.Schema
	allowed ExitRange
}

// Option configures a Definition.
type Option func(*Definition) error

// AllowExitStatus replaces the default 0..0 accepted range.
func AllowExitStatus(minStatus, maxStatus int) Option {
	return func(d *Definition) error {
		if minStatus < 0 || maxStatus < minStatus {
			return fmt.Errorf("%w: %d..%d", ErrInvalidExitRange, minStatus, maxStatus)
		}
		d.allowed = ExitRange{Min: minStatus, Max: maxStatus}
		return nil
	}
}

// Define validates opts immediately, so a bad range never reaches a call.
func Define(name string, schema *args.Schema, opts ...Option) (*Definition, error) {
	d := &Definition{name: name, schema: schema}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, fmt.Errorf("define %s: %w", name, err)
		}
	}
	return d, nil
}

// MustDefine is like Define but panics on error.
func MustDefine(name string, schema *args.Schema, opts ...Option) *Definition {
	d, err := Define(name, schema, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Definition) Name() string         { return d.name }
func (d *Definition) Schema() *args.Schema { return d.schema }
func (d *Definition) Allowed() ExitRange   { return d.allowed }

// Command binds a Definition to the runner executing it.
type Command struct {
	def    *Definition
	runner backend.Runner
}

func New(runner backend.Runner, def *Definition) *Command {
	return &Command{def: def, runner: runner}
}

// Call builds the arguments, runs git exactly once and classifies the exit
// status. Statuses inside the allowed range return the result unchanged; any
// other status returns a *backend.FailedError. Runner errors, including
// signals and timeouts, are returned as is.
func (c *Command) Call(ctx context.Context, positional []string, opts args.Options) (*backend.Result, error) {
	if c.def == nil || c.def.schema == nil {
		return nil, ErrNoSchema
	}
	if c.runner == nil {
		return nil, fmt.Errorf("%s: no runner", c.def.name)
	}
	bound, err := c.def.schema.Build(positional, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.def.name, err)
	}
	execOpts, err := backend.ExecOptionsFromMap(bound.Exec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.def.name, &args.ValidationError{Kind: args.ErrInvalidArguments, Msg: err.Error()})
	}
	execOpts.RaiseOnFailure = false

	res, err := c.runner.Command(ctx, bound.Args, execOpts)
	if err != nil {
		return nil, err
	}
	if !c.def.allowed.Contains(res.ExitStatus) {
		slog.Debug("git command rejected",
			slog.String("command", c.def.name),
			slog.Int("exit_status", res.ExitStatus),
			slog.String("allowed", c.def.allowed.String()),
		)
		return nil, &backend.FailedError{Result: res}
	}
	return res, nil
}
