package stackful

import (
	"errors"
	"fmt"
)

var (
	// ErrResumeAfterCompletion is the panic value raised by
	// Generator.Resume when called on a generator already in the Done
	// state (spec.md §9 treats this as a precondition violation).
	ErrResumeAfterCompletion = errors.New("stackful: resume called on a completed generator")

	// ErrGeneratorClosed is returned by operations (other than Resume,
	// which panics) attempted against a Generator after Close.
	ErrGeneratorClosed = errors.New("stackful: generator is closed")
)

// PanicError wraps a panic value recovered from a generator body or a
// RunSyncAsAsync goroutine, so it can cross a Resume/Wait boundary as
// an ordinary panic without losing the original value.
type PanicError struct {
	// Value is the recovered panic value (may be any type, including
	// error).
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("stackful: panic recovered from coroutine: %v", e.Value)
}

// Unwrap returns the underlying error if the panic value is an error,
// enabling errors.Is/errors.As to see through the wrapper.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
