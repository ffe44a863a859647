package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var (
	ErrCommandFailed = errors.New("git command failed")
	ErrSignaled      = errors.New("git command terminated")
)

// FailedError reports a git process that exited with a status the caller did
// not allow. Result keeps everything needed to diagnose it.
type FailedError struct {
	Result *Result
}

func (e *FailedError) Error() string {
	if e == nil || e.Result == nil {
		return ErrCommandFailed.Error()
	}
	msg := fmt.Sprintf("%s: %s: exit status %d", ErrCommandFailed, e.Result.CommandLine(), e.Result.ExitStatus)
	if stderr := strings.TrimSpace(e.Result.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *FailedError) Unwrap() error { return ErrCommandFailed }

// SignalError reports a git process that did not exit on its own.
type SignalError struct {
	Result *Result
	Signal os.Signal
	Cause  error
}

func (e *SignalError) Error() string {
	if e == nil {
		return ErrSignaled.Error()
	}
	var b strings.Builder
	b.WriteString(ErrSignaled.Error())
	if e.Result != nil {
		b.WriteString(": ")
		b.WriteString(e.Result.CommandLine())
	}
	if e.Signal != nil {
		fmt.Fprintf(&b, ": signal %s", e.Signal)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *SignalError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrSignaled, e.Cause}
	}
	return []error{ErrSignaled}
}

// TimeoutError reports a git process killed because its timeout expired. It
// matches both *SignalError and context.DeadlineExceeded.
type TimeoutError struct {
	*SignalError
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	if e == nil || e.SignalError == nil {
		return "git command timed out"
	}
	return fmt.Sprintf("git command timed out after %s: %s", e.Timeout, e.Result.CommandLine())
}

func (e *TimeoutError) Unwrap() []error {
	return []error{e.SignalError, context.DeadlineExceeded}
}
