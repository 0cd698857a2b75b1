package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy is a fixed-delay bounded retry. Every retryable stage shares this
// shape; stages that must not retry simply run once.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// Default matches the worker's transient-I/O posture: three attempts, two
// seconds apart.
var Default = Policy{Attempts: 3, Delay: 2 * time.Second}

// Do runs fn up to p.Attempts times, sleeping p.Delay between attempts.
// Context cancellation is observed while waiting and wins over further
// attempts.
func (p Policy) Do(ctx context.Context, op string, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(p.Delay):
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", op, attempts, lastErr)
}
