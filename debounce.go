// Package debounce provides a debounced function wrapper, i.e., it ensures
// that a function is only executed once per burst of calls: either after a
// certain amount of time has passed since the last call (trailing mode), or
// right away on the first call, ignoring the rest of the burst (immediate
// mode).
//
// Unlike a plain func() debouncer, every call returns a Future that reports
// what happened to that particular call. The call that triggers an invocation
// receives the function's return values. Every other call settles with
// ErrSuperseded, ErrSuppressed or ErrCanceled, so a caller waiting on a
// Future never blocks forever.
package debounce

import (
	"context"
	"time"
)

// Func is the function wrapped by a Debouncer. It receives the context and
// argument of the call that triggered the invocation. Use a struct type for A
// to pass several values.
type Func[A, R any] func(ctx context.Context, arg A) (R, error)

// New returns a debounced function that delays invoking f until after wait time
// has elapsed since the last time the debounced function was invoked, and a
// cancel function that discards any pending invocation.
//
// With the Immediate option, f is instead invoked right away on the first call
// of a burst, and further calls are ignored until wait has passed without any
// calls.
//
// The returned functions are the Call and Cancel methods of a Debouncer created
// with NewDebouncer, so both are safe for concurrent use in goroutines, and
// can both be called multiple times.
func New[A, R any](
	wait time.Duration,
	f Func[A, R],
	opts ...Option,
) (debounced func(ctx context.Context, arg A) *Future[R], cancel func(), err error) {
	d, err := NewDebouncer(wait, f, opts...)
	if err != nil {
		return nil, nil, err
	}

	return d.Call, d.Cancel, nil
}
