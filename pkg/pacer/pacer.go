package pacer

import (
	"context"
	"math/rand"
	"time"
)

// DefaultInterval is the delay applied between successive platform calls
// when no interval is configured.
const DefaultInterval = time.Second

// Pacer enforces a fixed delay between successive operations, with optional
// jitter. It is not a token bucket: every Wait sleeps the full interval, which
// is exactly what sequential vendor calls need to stay under rate limits.
// It is safe for concurrent use by multiple goroutines.
type Pacer struct {
	interval time.Duration
	jitter   float64 // 0.0 to 1.0
}

// New creates a Pacer sleeping interval between operations. Jitter must be
// between 0.0 and 1.0; out-of-range values are clamped. If interval is <= 0,
// Wait does not block.
func New(interval time.Duration, jitter float64) *Pacer {
	if jitter < 0 {
		jitter = 0
	} else if jitter > 1 {
		jitter = 1
	}
	return &Pacer{
		interval: interval,
		jitter:   jitter,
	}
}

// Default returns a Pacer with the default one second interval and no jitter.
func Default() *Pacer {
	return New(DefaultInterval, 0)
}

// Interval reports the configured base delay.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Wait blocks for the configured interval (plus or minus jitter), or until
// the context is canceled, in which case it returns the context's error.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.interval <= 0 {
		return nil
	}

	d := p.interval
	if p.jitter > 0 {
		// Random factor in [-1.0, 1.0), scaled by the jitter fraction.
		factor := (rand.Float64() * 2) - 1.0
		d += time.Duration(float64(p.interval) * p.jitter * factor)
		if d < 0 {
			d = 0
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
