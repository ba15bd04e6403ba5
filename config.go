package debounce

import (
	"context"

	"github.com/rs/zerolog"
	"k8s.io/utils/clock"
)

type config struct {
	immediate bool
	clock     clock.WithDelayedExecution
	logger    *zerolog.Logger
}

func newConfig(opts ...Option) config {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}

	if c.clock == nil {
		c.clock = clock.RealClock{}
	}

	return c
}

// loggerFor returns the configured logger, or the one carried by ctx.
func (c *config) loggerFor(ctx context.Context) *zerolog.Logger {
	if c.logger != nil {
		return c.logger
	}

	return zerolog.Ctx(ctx)
}

func (c *config) mode() string {
	if c.immediate {
		return "immediate"
	}

	return "trailing"
}
