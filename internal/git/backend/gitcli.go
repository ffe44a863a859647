package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"time"
)

// DefaultBinary is the git executable looked up in PATH.
const DefaultBinary = "git"

// CLI runs the git executable against one repository.
type CLI struct {
	binary  string
	path    string
	timeout time.Duration
	env     []string

	versionOnce sync.Once
	version     versionInfo
}

// CLIOption configures a CLI runner.
type CLIOption func(*CLI)

// WithBinary selects the git executable.
func WithBinary(binary string) CLIOption {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithDefaultTimeout applies to calls that do not set their own timeout.
func WithDefaultTimeout(d time.Duration) CLIOption {
	return func(c *CLI) { c.timeout = d }
}

// WithEnv appends KEY=VALUE entries to the environment of every call.
func WithEnv(env ...string) CLIOption {
	return func(c *CLI) { c.env = append(c.env, env...) }
}

// NewCLI returns a runner executing git inside repoPath.
func NewCLI(repoPath string, opts ...CLIOption) (*CLI, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	c := &CLI{binary: DefaultBinary, path: abs}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *CLI) RepoPath() string {
	if c == nil {
		return ""
	}
	return c.path
}

// baseEnv keeps git from prompting or paging and its messages parseable.
var baseEnv = []string{
	"GIT_TERMINAL_PROMPT=0",
	"GIT_PAGER=cat",
	"PAGER=cat",
	"LC_ALL=C",
}

func (c *CLI) Command(ctx context.Context, args []string, opts ExecOptions) (*Result, error) {
	if c == nil || c.path == "" {
		return nil, fmt.Errorf("repository root not set")
	}
	dir := c.path
	if opts.Dir != "" {
		dir = opts.Dir
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = c.timeout
	}
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	argv := append([]string{c.binary, "--no-pager", "-C", dir}, args...)
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Env = slices.Concat(os.Environ(), baseEnv, c.env, opts.Env)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Args:     argv,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		res.ExitStatus = cmd.ProcessState.ExitCode()
	}
	slog.Debug("git command",
		slog.Any("args", argv),
		slog.Int("exit_status", res.ExitStatus),
		slog.Duration("duration", res.Duration),
	)
	if err != nil {
		if runCtx.Err() != nil {
			// the parent context wins over our own deadline
			if ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
				return nil, &TimeoutError{SignalError: &SignalError{Result: res, Signal: os.Kill}, Timeout: timeout}
			}
			return nil, &SignalError{Result: res, Signal: os.Kill, Cause: ctx.Err()}
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s: %w", c.binary, err)
		}
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return nil, &SignalError{Result: res, Signal: ws.Signal()}
		}
	}
	if opts.RaiseOnFailure && res.ExitStatus != 0 {
		return nil, &FailedError{Result: res}
	}
	return res, nil
}
