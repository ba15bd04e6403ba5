package debounce

import (
	"github.com/rs/zerolog"
	"k8s.io/utils/clock"
)

// Option is a function that can be used to configure a Debouncer.
type Option func(*config)

// Immediate returns an option that will cause the debounced function to invoke
// the underlying function right away on the first call of a burst, and then
// ignore every further call until the wait duration has passed without any
// calls.
//
// Each ignored call restarts the wait window, so a steady stream of calls
// spaced closer than the wait duration results in a single invocation.
func Immediate() Option {
	return func(c *config) {
		c.immediate = true
	}
}

// WithClock returns an option that sets the clock used to schedule and cancel
// timers. It defaults to the real wall clock, and is mostly useful for
// injecting a fake clock in tests.
func WithClock(clk clock.WithDelayedExecution) Option {
	return func(c *config) {
		c.clock = clk
	}
}

// WithLogger returns an option that sets the logger the Debouncer reports its
// activity to.
//
// Without it, the logger attached to the context of each call via
// zerolog.Logger.WithContext is used, which is a disabled logger if the
// context carries none.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = &logger
	}
}
