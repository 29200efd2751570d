package event

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a center.
type Option func(*config)

type config struct {
	// logger is the diagnostic sink for watchdog warnings and handler
	// faults.
	logger zerolog.Logger

	// slowWarning is the latency watchdog threshold.
	slowWarning time.Duration
}

func defaultConfig() config {
	return config{
		logger:      zerolog.New(os.Stderr).With().Timestamp().Logger(),
		slowWarning: SlowInvocation,
	}
}

// WithLogger sets the diagnostic sink.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithSlowWarning overrides the latency watchdog threshold. Intended
// for tests; the production threshold is SlowInvocation.
func WithSlowWarning(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.slowWarning = d
		}
	}
}
