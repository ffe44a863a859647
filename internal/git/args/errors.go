package args

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrInvalidSchema    = errors.New("invalid argument schema")
)

// ValidationError reports caller misuse detected before anything runs.
type ValidationError struct {
	Kind error
	Msg  string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &ValidationError{Kind: ErrInvalidArguments, Msg: fmt.Sprintf(format, args...)}
}

func schemaf(format string, args ...any) error {
	return &ValidationError{Kind: ErrInvalidSchema, Msg: fmt.Sprintf(format, args...)}
}
