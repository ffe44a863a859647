// Package batch reports operations applied to several named targets at once,
// where git's exit status only says that some of them failed.
package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thiagokokada/gitcmd/internal/git/backend"
)

type Failure struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Result holds every requested name in exactly one bucket.
type Result[T any] struct {
	Succeeded []T       `json:"succeeded"`
	Failed    []Failure `json:"failed"`
}

func (r Result[T]) Success() bool {
	return len(r.Failed) == 0
}

func (r Result[T]) FailedNames() []string {
	names := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		names = append(names, f.Name)
	}
	return names
}

type Options[T any] struct {
	// Placeholder builds a record for a succeeded name that was not in the
	// snapshot. Defaults to the zero value.
	Placeholder func(name string) T
	// DefaultMessage is used for failed names git printed no error for.
	DefaultMessage func(name string) string
}

func defaultMessage(name string) string {
	return fmt.Sprintf("%s: no success reported", name)
}

// Unique drops repeated names, keeping first occurrences in order.
func Unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Reconcile splits requested into succeeded records, taken from snapshot, and
// failures, described by errs. Both buckets follow the order of requested.
func Reconcile[T any](requested []string, snapshot map[string]T, succeeded []string, errs map[string]string, opts Options[T]) Result[T] {
	ok := make(map[string]struct{}, len(succeeded))
	for _, n := range succeeded {
		ok[n] = struct{}{}
	}
	msgFor := opts.DefaultMessage
	if msgFor == nil {
		msgFor = defaultMessage
	}

	var res Result[T]
	for _, name := range Unique(requested) {
		if _, done := ok[name]; done {
			rec, found := snapshot[name]
			if !found && opts.Placeholder != nil {
				rec = opts.Placeholder(name)
			}
			res.Succeeded = append(res.Succeeded, rec)
			continue
		}
		msg := errs[name]
		if msg == "" {
			msg = msgFor(name)
		}
		res.Failed = append(res.Failed, Failure{Name: name, Message: msg})
	}
	return res
}

// Op is a best-effort batch operation. Execute must accept both 0 and
// PartialFailureExit as successful exit statuses.
type Op[T any] struct {
	Name               string
	Snapshot           func(ctx context.Context, names []string) (map[string]T, error)
	Execute            func(ctx context.Context, names []string) (*backend.Result, error)
	PartialFailureExit int
	ParseSucceeded     func(stdout string) []string
	ParseFailed        func(stderr string) map[string]string
	Options[T]
}

// Run snapshots the targets, executes the operation once and reconciles its
// output. Exit statuses other than 0 and PartialFailureExit are returned as a
// *backend.FailedError without reconciliation.
func (op Op[T]) Run(ctx context.Context, names []string) (Result[T], error) {
	names = Unique(names)

	var snapshot map[string]T
	if op.Snapshot != nil {
		var err error
		snapshot, err = op.Snapshot(ctx, names)
		if err != nil {
			return Result[T]{}, fmt.Errorf("%s: snapshot: %w", op.Name, err)
		}
	}

	res, err := op.Execute(ctx, names)
	if err != nil {
		return Result[T]{}, err
	}
	if res.ExitStatus != 0 && res.ExitStatus != op.PartialFailureExit {
		return Result[T]{}, &backend.FailedError{Result: res}
	}

	var succeeded []string
	if op.ParseSucceeded != nil {
		succeeded = op.ParseSucceeded(res.Stdout)
	}
	var errs map[string]string
	if op.ParseFailed != nil {
		errs = op.ParseFailed(res.Stderr)
	}
	out := Reconcile(names, snapshot, succeeded, errs, op.Options)
	slog.Debug("batch reconciled",
		slog.String("op", op.Name),
		slog.Int("exit_status", res.ExitStatus),
		slog.Int("succeeded", len(out.Succeeded)),
		slog.Int("failed", len(out.Failed)),
	)
	return out, nil
}
