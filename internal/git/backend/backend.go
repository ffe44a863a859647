package backend

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Runner spawns git.
//
// The default implementation shells out to the git executable, but the interface
// allows alternative implementations (e.g. fakes in tests) without changing
// callers.
type Runner interface {
	Command(ctx context.Context, args []string, opts ExecOptions) (*Result, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, args []string, opts ExecOptions) (*Result, error)

func (f RunnerFunc) Command(ctx context.Context, args []string, opts ExecOptions) (*Result, error) {
	return f(ctx, args, opts)
}

// ExecOptions control how a single git process is run. They never reach the
// git command line.
type ExecOptions struct {
	Timeout time.Duration
	// Dir overrides the repository directory for this call.
	Dir string
	Env []string
	// RaiseOnFailure makes the runner return a *FailedError for non-zero
	// exit statuses. Callers that classify the status themselves leave it off.
	RaiseOnFailure bool
}

// Result is the raw outcome of one git process.
type Result struct {
	Args       []string
	Stdout     string
	Stderr     string
	ExitStatus int
	Duration   time.Duration
}

// CommandLine renders Args for diagnostics.
func (r *Result) CommandLine() string {
	if r == nil {
		return ""
	}
	return strings.Join(r.Args, " ")
}

// ExecOptionsFromMap converts execution options collected by an argument
// schema. timeout accepts a time.Duration or whole seconds, chdir a string and
// env a map of variables.
func ExecOptionsFromMap(m map[string]any) (ExecOptions, error) {
	var opts ExecOptions
	for _, key := range slices.Sorted(maps.Keys(m)) {
		v := m[key]
		switch key {
		case "timeout":
			switch t := v.(type) {
			case time.Duration:
				opts.Timeout = t
			case int:
				opts.Timeout = time.Duration(t) * time.Second
			case int64:
				opts.Timeout = time.Duration(t) * time.Second
			default:
				return ExecOptions{}, fmt.Errorf("execution option timeout: unsupported type %T", v)
			}
			if opts.Timeout < 0 {
				return ExecOptions{}, fmt.Errorf("execution option timeout: negative duration %s", opts.Timeout)
			}
		case "chdir":
			dir, ok := v.(string)
			if !ok {
				return ExecOptions{}, fmt.Errorf("execution option chdir: unsupported type %T", v)
			}
			opts.Dir = dir
		case "env":
			env, ok := v.(map[string]string)
			if !ok {
				return ExecOptions{}, fmt.Errorf("execution option env: unsupported type %T", v)
			}
			for _, k := range slices.Sorted(maps.Keys(env)) {
				opts.Env = append(opts.Env, k+"="+env[k])
			}
		default:
			return ExecOptions{}, fmt.Errorf("unknown execution option %s", key)
		}
	}
	return opts, nil
}
