package framework

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned (or, for Exec, panicked) when an API method is called
	// with a malformed set of arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrExecutionStopped is returned by T.Done once Stop has been requested. The report for
	// the test that observed it has already been recorded and flushed.
	ErrExecutionStopped = errors.New("stopped test execution")

	// ErrAlreadyDone is returned by T.Done if the test was already completed.
	ErrAlreadyDone = errors.New("test already completed")

	// ErrSessionFinished is returned by T.Done for a test that completes after the session
	// has been finalized.
	ErrSessionFinished = errors.New("session already finished")
)

// ArgumentError describes a call with the wrong shape. It wraps ErrInvalidArgument.
type ArgumentError struct {
	Method string
	Usage  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s; usage: %s", e.Method, e.Reason, e.Usage)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

const (
	testUsage = "Test(name, action)"
	execUsage = "Exec(x [, y [, operator]])"
)
