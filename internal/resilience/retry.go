package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy controls retry behavior. The zero value retries twice (three
// attempts total) with a 500ms base doubling per attempt, capped at 30s,
// with 25% jitter.
type Policy struct {
	Attempts int           // total attempts including the first; 1 disables retries
	Base     time.Duration // delay before the first retry
	Cap      time.Duration // upper bound on any single delay
	Factor   float64       // backoff growth per attempt
	Jitter   float64       // fraction of the delay randomized in both directions

	// Classify overrides Retryable when set.
	Classify func(error) bool

	// OnAttempt runs before each retry sleep with the attempt just failed.
	OnAttempt func(attempt int, err error)
}

func (p Policy) withDefaults() Policy {
	if p.Attempts <= 0 {
		p.Attempts = 3
	}
	if p.Base <= 0 {
		p.Base = 500 * time.Millisecond
	}
	if p.Cap <= 0 {
		p.Cap = 30 * time.Second
	}
	if p.Factor <= 0 {
		p.Factor = 2.0
	}
	if p.Jitter < 0 {
		p.Jitter = 0
	}
	return p
}

// Retry runs op until it succeeds, returns a non-retryable error, exhausts
// the policy's attempts, or the context ends. The value from the successful
// attempt is returned; failures return the zero value and the last error.
func Retry[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	p = p.withDefaults()
	classify := p.Classify
	if classify == nil {
		classify = Retryable
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < p.Attempts; attempt++ {
		val, err := op(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !classify(err) || attempt == p.Attempts-1 {
			break
		}

		if p.OnAttempt != nil {
			p.OnAttempt(attempt+1, err)
		}

		timer := time.NewTimer(p.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}

// RetryErr is Retry for operations with no return value.
func RetryErr(ctx context.Context, p Policy, op func(context.Context) error) error {
	_, err := Retry(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

func (p Policy) delay(attempt int) time.Duration {
	d := float64(p.Base) * math.Pow(p.Factor, float64(attempt))
	if d > float64(p.Cap) {
		d = float64(p.Cap)
	}
	if p.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * p.Jitter
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}

// LogAttempts returns an OnAttempt hook that logs each retry for a provider
// operation.
func LogAttempts(provider, operation string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("retrying provider call",
			zap.String("provider", provider),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
