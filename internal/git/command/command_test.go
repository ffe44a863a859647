package command

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/thiagokokada/gitcmd/internal/git/args"
	"github.com/thiagokokada/gitcmd/internal/git/backend"
)

type fakeRunner struct {
	commandFunc func(args []string, opts backend.ExecOptions) (*backend.Result, error)

	calls    int
	lastArgs []string
	lastOpts backend.ExecOptions
}

func (f *fakeRunner) Command(_ context.Context, args []string, opts backend.ExecOptions) (*backend.Result, error) {
	f.calls++
	f.lastArgs = args
	f.lastOpts = opts
	if f.commandFunc != nil {
		return f.commandFunc(args, opts)
	}
	return nil, errors.New("unexpected Command call")
}

func exitWith(status int) func([]string, backend.ExecOptions) (*backend.Result, error) {
	return func(args []string, _ backend.ExecOptions) (*backend.Result, error) {
		return &backend.Result{Args: args, ExitStatus: status, Stdout: "out", Stderr: "err"}, nil
	}
}

var testSchema = args.MustDefine(
	args.Literal("tag"),
	args.Bool("force", "--force", args.Negatable()),
	args.Exec("timeout"),
	args.Operand("name", args.Required(), args.Repeatable()),
)

func TestCall_DefaultRangeRejectsNonZero(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{commandFunc: exitWith(1)}
	cmd := New(runner, MustDefine("tag", testSchema))

	_, err := cmd.Call(context.Background(), []string{"v1"}, nil)
	var failed *backend.FailedError
	if !errors.As(err, &failed) {
		t.Fatalf("Call() error = %v, want *backend.FailedError", err)
	}
	if failed.Result.ExitStatus != 1 || failed.Result.Stdout != "out" || failed.Result.Stderr != "err" {
		t.Fatalf("failure lost the result: %+v", failed.Result)
	}
	if !slices.Equal(failed.Result.Args, []string{"tag", "v1"}) {
		t.Fatalf("failure args = %q", failed.Result.Args)
	}
}

func TestCall_AllowedRangeReturnsResult(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{commandFunc: exitWith(1)}
	cmd := New(runner, MustDefine("tag", testSchema, AllowExitStatus(0, 1)))

	res, err := cmd.Call(context.Background(), []string{"v1"}, nil)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if res.ExitStatus != 1 {
		t.Fatalf("exit status = %d", res.ExitStatus)
	}
}

func TestCall_RangeBoundaries(t *testing.T) {
	t.Parallel()

	def := MustDefine("fsck", testSchema, AllowExitStatus(0, 7))
	for status := 0; status <= 8; status++ {
		runner := &fakeRunner{commandFunc: exitWith(status)}
		_, err := New(runner, def).Call(context.Background(), []string{"x"}, nil)
		if status <= 7 && err != nil {
			t.Fatalf("status %d rejected: %v", status, err)
		}
		if status == 8 && !errors.Is(err, backend.ErrCommandFailed) {
			t.Fatalf("status 8 accepted: %v", err)
		}
	}
}

func TestDefine_InvalidRangeFailsImmediately(t *testing.T) {
	t.Parallel()

	for _, r := range [][2]int{{2, 1}, {-1, 0}} {
		_, err := Define("bad", testSchema, AllowExitStatus(r[0], r[1]))
		if !errors.Is(err, ErrInvalidExitRange) {
			t.Fatalf("Define(%v) error = %v, want ErrInvalidExitRange", r, err)
		}
	}

	defer func() {
		if recover() == nil {
			t.Fatal("MustDefine should panic for an inverted range")
		}
	}()
	MustDefine("bad", testSchema, AllowExitStatus(2, 1))
}

func TestDefinition_DefaultRange(t *testing.T) {
	t.Parallel()

	def := MustDefine("tag", testSchema)
	if def.Allowed() != (ExitRange{Min: 0, Max: 0}) {
		t.Fatalf("default range = %s", def.Allowed())
	}
	if def.Name() != "tag" || def.Schema() != testSchema {
		t.Fatalf("unexpected definition accessors")
	}
}

func TestCall_ValidationNeverReachesRunner(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{commandFunc: exitWith(0)}
	cmd := New(runner, MustDefine("tag", testSchema))

	_, err := cmd.Call(context.Background(), nil, nil)
	if !errors.Is(err, args.ErrInvalidArguments) {
		t.Fatalf("Call() error = %v, want ErrInvalidArguments", err)
	}
	if runner.calls != 0 {
		t.Fatalf("runner called %d times", runner.calls)
	}
}

func TestCall_MistypedExecutionOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts args.Options
	}{
		{name: "timeout_string", opts: args.Options{"timeout": "5s"}},
		{name: "timeout_negative", opts: args.Options{"timeout": -time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := &fakeRunner{commandFunc: exitWith(0)}
			cmd := New(runner, MustDefine("tag", testSchema))

			_, err := cmd.Call(context.Background(), []string{"v1"}, tt.opts)
			if !errors.Is(err, args.ErrInvalidArguments) {
				t.Fatalf("Call() error = %v, want ErrInvalidArguments", err)
			}
			var verr *args.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Call() error %T is not *args.ValidationError", err)
			}
			if runner.calls != 0 {
				t.Fatalf("runner called %d times", runner.calls)
			}
		})
	}
}

func TestCall_RunnerErrorsPropagateUnchanged(t *testing.T) {
	t.Parallel()

	timeout := &backend.TimeoutError{SignalError: &backend.SignalError{Result: &backend.Result{}}, Timeout: time.Second}
	runner := &fakeRunner{commandFunc: func([]string, backend.ExecOptions) (*backend.Result, error) {
		return nil, timeout
	}}
	cmd := New(runner, MustDefine("tag", testSchema, AllowExitStatus(0, 255)))

	_, err := cmd.Call(context.Background(), []string{"v1"}, nil)
	if err != error(timeout) {
		t.Fatalf("Call() error = %v, want the runner's error unchanged", err)
	}
	if runner.calls != 1 {
		t.Fatalf("runner called %d times, want 1", runner.calls)
	}
}

func TestCall_ExecutionOptions(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{commandFunc: exitWith(0)}
	cmd := New(runner, MustDefine("tag", testSchema))

	_, err := cmd.Call(context.Background(), []string{"v1", "v2"}, args.Options{"force": false, "timeout": 2 * time.Second})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if !slices.Equal(runner.lastArgs, []string{"tag", "--no-force", "v1", "v2"}) {
		t.Fatalf("args = %q", runner.lastArgs)
	}
	if runner.lastOpts.Timeout != 2*time.Second || runner.lastOpts.RaiseOnFailure {
		t.Fatalf("exec options = %+v", runner.lastOpts)
	}
	if runner.calls != 1 {
		t.Fatalf("runner called %d times, want 1", runner.calls)
	}
}

func TestCall_NoSchema(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{commandFunc: exitWith(0)}
	for _, cmd := range []*Command{New(runner, nil), New(runner, &Definition{name: "empty"})} {
		if _, err := cmd.Call(context.Background(), nil, nil); !errors.Is(err, ErrNoSchema) {
			t.Fatalf("Call() error = %v, want ErrNoSchema", err)
		}
	}
	if runner.calls != 0 {
		t.Fatalf("runner called %d times", runner.calls)
	}
}
