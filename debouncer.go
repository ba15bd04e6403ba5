package debounce

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// State is the observable state of a Debouncer.
type State int

const (
	// StateIdle means no timer is armed and the function is not running.
	StateIdle State = iota

	// StatePending means a timer is armed: a trailing invocation is waiting
	// for the quiet period, or an immediate-mode wait window is open.
	StatePending

	// StateFiring means the function is currently running.
	StateFiring
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateFiring:
		return "firing"
	default:
		return "unknown"
	}
}

// Debouncer wraps a function so that bursts of calls result in a single
// invocation. It combines configuration and state into a single struct with
// methods for calling and cancelling the debounced function.
//
// All methods are safe for concurrent use.
type Debouncer[A, R any] struct {
	// Configuration
	fn   Func[A, R]
	wait time.Duration
	config

	// State
	mux     sync.Mutex
	gen     uint64
	timer   clock.Timer
	pending *request[A, R]
	firing  int
}

type request[A, R any] struct {
	ctx    context.Context
	arg    A
	future *Future[R]
}

// NewDebouncer creates a new Debouncer that delays invoking fn until wait has
// elapsed since the last call, or with the Immediate option, invokes fn on the
// first call and then waits for wait to pass without calls before it can be
// invoked again.
//
// It returns an error wrapping ErrInvalidArgument if wait is negative or fn is
// nil. A zero wait is valid and still defers trailing invocations to the
// clock's timer goroutine.
func NewDebouncer[A, R any](
	wait time.Duration,
	fn Func[A, R],
	opts ...Option,
) (*Debouncer[A, R], error) {
	if wait < 0 {
		return nil, fmt.Errorf("%w: negative wait %s", ErrInvalidArgument, wait)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: nil function", ErrInvalidArgument)
	}

	return &Debouncer[A, R]{
		fn:     fn,
		wait:   wait,
		config: newConfig(opts...),
	}, nil
}

// Call invokes the debounced function with arg according to the configured
// mode, and returns a Future for the outcome of this particular call.
//
// In trailing mode the function runs on a timer goroutine with the ctx and arg
// of the last call of a burst; earlier calls of the burst settle with
// ErrSuperseded as soon as they are replaced.
//
// In immediate mode the first call of a burst runs the function synchronously,
// so its Future is settled by the time Call returns. Calls made within the
// wait window settle right away with ErrSuppressed.
func (d *Debouncer[A, R]) Call(ctx context.Context, arg A) *Future[R] {
	if ctx == nil {
		ctx = context.Background()
	}

	req := &request[A, R]{ctx: ctx, arg: arg, future: newFuture[R]()}

	if d.immediate {
		d.callImmediate(req)
	} else {
		d.callTrailing(req)
	}

	return req.future
}

func (d *Debouncer[A, R]) callTrailing(req *request[A, R]) {
	d.mux.Lock()
	defer d.mux.Unlock()

	if prev := d.pending; prev != nil {
		d.loggerFor(prev.ctx).Debug().
			Dur("wait", d.wait).
			Msg("debounce: call superseded")
		prev.future.settle(Result[R]{
			Err:     ErrSuperseded,
			Outcome: OutcomeSuperseded,
		})
	}

	d.pending = req
	d.arm()

	d.loggerFor(req.ctx).Debug().
		Str("mode", d.mode()).
		Dur("wait", d.wait).
		Msg("debounce: call scheduled")
}

func (d *Debouncer[A, R]) callImmediate(req *request[A, R]) {
	d.mux.Lock()
	callNow := d.timer == nil
	d.arm()
	if callNow {
		d.firing++
	}
	d.mux.Unlock()

	if !callNow {
		d.loggerFor(req.ctx).Debug().
			Dur("wait", d.wait).
			Msg("debounce: call suppressed")
		req.future.settle(Result[R]{
			Err:     ErrSuppressed,
			Outcome: OutcomeSuppressed,
		})

		return
	}

	d.loggerFor(req.ctx).Debug().
		Str("mode", d.mode()).
		Msg("debounce: invoking")
	d.invoke(req)
}

// Cancel stops any pending timer. A pending trailing-mode call settles with
// ErrCanceled and its function is never invoked. In immediate mode the wait
// window is closed, so the next call invokes the function right away.
//
// Cancel does not affect Futures that have already settled, nor an invocation
// that is already running. It is safe to call at any time, any number of
// times.
func (d *Debouncer[A, R]) Cancel() {
	d.mux.Lock()
	defer d.mux.Unlock()

	d.disarm()

	if req := d.pending; req != nil {
		d.pending = nil
		d.loggerFor(req.ctx).Debug().Msg("debounce: pending call canceled")
		req.future.settle(Result[R]{
			Err:     ErrCanceled,
			Outcome: OutcomeCanceled,
		})
	}
}

// State returns the current state of the Debouncer.
func (d *Debouncer[A, R]) State() State {
	d.mux.Lock()
	defer d.mux.Unlock()

	switch {
	case d.firing > 0:
		return StateFiring
	case d.timer != nil:
		return StatePending
	default:
		return StateIdle
	}
}

// expire is called when the timer armed for generation gen fires.
func (d *Debouncer[A, R]) expire(gen uint64) {
	d.mux.Lock()
	if gen != d.gen {
		// Replaced or canceled after it fired, but before we got the lock.
		d.mux.Unlock()
		return
	}

	d.timer = nil
	req := d.pending
	d.pending = nil
	if req != nil {
		d.firing++
	}
	d.mux.Unlock()

	if req == nil {
		d.loggerFor(context.Background()).Debug().
			Msg("debounce: wait window elapsed")
		return
	}

	d.loggerFor(req.ctx).Debug().
		Str("mode", d.mode()).
		Msg("debounce: invoking")
	d.invoke(req)
}

// invoke runs the function for req and settles its Future. The caller must
// have incremented d.firing, and must not hold the mutex.
func (d *Debouncer[A, R]) invoke(req *request[A, R]) {
	res := d.run(req)

	d.mux.Lock()
	d.firing--
	d.mux.Unlock()

	req.future.settle(res)
}

func (d *Debouncer[A, R]) run(req *request[A, R]) (res Result[R]) {
	defer func() {
		if v := recover(); v != nil {
			perr := &PanicError{Value: v, Stack: debug.Stack()}
			d.loggerFor(req.ctx).Error().
				Err(perr).
				Bytes("stack", perr.Stack).
				Msg("debounce: function panicked")
			res = Result[R]{Err: perr, Outcome: OutcomeFailed}
		}
	}()

	v, err := d.fn(req.ctx, req.arg)
	if err != nil {
		return Result[R]{Value: v, Err: err, Outcome: OutcomeFailed}
	}

	return Result[R]{Value: v, Outcome: OutcomeSucceeded}
}
