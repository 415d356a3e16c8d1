package cli

import (
	"errors"
	"fmt"

	"github.com/idilsaglam/todo/internal/state"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// exitError carries the process exit code and an optional hint line.
type exitError struct {
	code int
	err  error
	hint string
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func failed(err error) error { return &exitError{code: exitFailed, err: err} }

func usagef(format string, args ...any) error {
	return &exitError{code: exitUsage, err: fmt.Errorf(format, args...)}
}

func withHint(err error, hint string) error {
	var ee *exitError
	if errors.As(err, &ee) {
		ee.hint = hint
	}
	return err
}

// exitCode maps a command error to a process exit code. Errors not built
// here come from cobra's own argument and flag parsing.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUsage
}

// noticeErr turns the controller's current notice into a failure.
func noticeErr(ctrl *state.Controller) error {
	if n, ok := ctrl.Notice(); ok {
		return failed(errors.New(n.Message))
	}
	return nil
}
