package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the REPL should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrNoDocument indicates an edit with no document open.
	ErrNoDocument = errors.New("no document open")

	// ErrNoPath indicates a save without a destination.
	ErrNoPath = errors.New("no file path")

	// ErrUnknownCommand indicates a REPL line that is neither a command
	// nor an edit step.
	ErrUnknownCommand = errors.New("unknown command")
)

// OperationError reports a failed application operation on a target such
// as a file.
type OperationError struct {
	Op     string
	Target string
	Err    error
}

// NewOperationError creates an OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
