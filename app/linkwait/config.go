package linkwait

import (
	"context"
	"time"

	"github.com/usnistgov/portplan/core/nnduration"
)

// Defaults.
const (
	DefaultMaxCycles = 90
	DefaultInterval  = nnduration.Milliseconds(100)
)

// Config contains link polling configuration.
type Config struct {
	// MaxCycles is the maximum number of polling cycles.
	// The default is 90.
	MaxCycles int `json:"maxCycles,omitempty"`

	// Interval is the sleep duration between polling cycles.
	// The default is 100ms.
	Interval nnduration.Milliseconds `json:"interval,omitempty"`
}

func (cfg *Config) applyDefaults() {
	if cfg.MaxCycles <= 0 {
		cfg.MaxCycles = DefaultMaxCycles
	}
}

// Sleeper sleeps between polling cycles.
type Sleeper interface {
	// Sleep blocks for duration d.
	// It returns early with an error if ctx is canceled.
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep implements Sleeper interface.
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// DefaultSleeper sleeps with a timer.
var DefaultSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
})
