package debounce

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a Debouncer is constructed with a
	// negative wait duration or a nil function.
	ErrInvalidArgument = errors.New("debounce: invalid argument")

	// ErrSuperseded is carried by the Result of a trailing-mode call that was
	// replaced by a later call before the wait duration elapsed.
	ErrSuperseded = errors.New("debounce: superseded by a later call")

	// ErrSuppressed is carried by the Result of an immediate-mode call made
	// while the wait window of a previous invocation was still open.
	ErrSuppressed = errors.New("debounce: suppressed within wait window")

	// ErrCanceled is carried by the Result of a pending call that was
	// discarded by Cancel.
	ErrCanceled = errors.New("debounce: canceled")
)

// PanicError is the Result error of an invocation whose function panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("debounce: function panicked: %v", e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}
