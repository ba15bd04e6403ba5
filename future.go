package debounce

import (
	"context"
	"sync"
)

// Outcome describes how a single call to a Debouncer was settled.
type Outcome int

const (
	// OutcomeSucceeded means the function ran and returned a nil error.
	OutcomeSucceeded Outcome = iota + 1

	// OutcomeFailed means the function ran and returned an error or panicked.
	OutcomeFailed

	// OutcomeSuperseded means a later call replaced this one before it ran.
	OutcomeSuperseded

	// OutcomeSuppressed means the call fell within the wait window of an
	// immediate-mode invocation and was dropped.
	OutcomeSuppressed

	// OutcomeCanceled means the call was pending when Cancel was called.
	OutcomeCanceled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeSuperseded:
		return "superseded"
	case OutcomeSuppressed:
		return "suppressed"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Result is the settled value of a Future. Value is only meaningful when the
// function actually ran, that is when Ran reports true.
type Result[R any] struct {
	Value   R
	Err     error
	Outcome Outcome
}

// Ran reports whether the function was invoked for this call.
func (r Result[R]) Ran() bool {
	return r.Outcome == OutcomeSucceeded || r.Outcome == OutcomeFailed
}

// Future is the handle returned by each call to a Debouncer. It settles
// exactly once: with the function's return values when the call is the one
// that triggers an invocation, or with ErrSuperseded, ErrSuppressed or
// ErrCanceled when it is not.
type Future[R any] struct {
	once sync.Once
	done chan struct{}
	res  Result[R]
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// settle stores res and closes the done channel. Only the first call has any
// effect.
func (f *Future[R]) settle(res Result[R]) {
	f.once.Do(func() {
		f.res = res
		close(f.done)
	})
}

// Done returns a channel that is closed once the Future has settled.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Result returns the settled result without blocking. The boolean is false if
// the Future has not settled yet.
func (f *Future[R]) Result() (Result[R], bool) {
	select {
	case <-f.done:
		return f.res, true
	default:
		return Result[R]{}, false
	}
}

// Wait blocks until the Future settles or ctx is done, and returns the
// function's value and error. Calls that did not run return the zero value
// and one of ErrSuperseded, ErrSuppressed or ErrCanceled.
//
// A nil ctx is treated as context.Background.
func (f *Future[R]) Wait(ctx context.Context) (R, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case <-f.done:
		return f.res.Value, f.res.Err
	case <-ctx.Done():
		var zero R

		return zero, ctx.Err()
	}
}
