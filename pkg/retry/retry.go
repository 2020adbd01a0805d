// Package retry implements bounded exponential backoff for flaky calls,
// used when fetching trade history from exchange APIs.
package retry

import (
	"context"
	"time"
)

const (
	defaultAttempts = 4
	defaultInitial  = 500 * time.Millisecond
	defaultMax      = 10 * time.Second
)

// Backoff retries a function with exponentially growing pauses.
type Backoff struct {
	attempts int
	initial  time.Duration
	max      time.Duration
}

// New creates a Backoff with sane defaults for HTTP APIs.
func New() *Backoff {
	return &Backoff{attempts: defaultAttempts, initial: defaultInitial, max: defaultMax}
}

// WithAttempts overrides the total number of attempts (including the first).
func (b *Backoff) WithAttempts(n int) *Backoff {
	if n > 0 {
		b.attempts = n
	}
	return b
}

// WithInitial overrides the first pause duration.
func (b *Backoff) WithInitial(d time.Duration) *Backoff {
	if d > 0 {
		b.initial = d
	}
	return b
}

// Do runs fn until it succeeds, attempts are exhausted, or ctx is done.
// The last error is returned on exhaustion.
func (b *Backoff) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	pause := b.initial
	for attempt := 0; attempt < b.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pause):
			}
			pause *= 2
			if pause > b.max {
				pause = b.max
			}
		}
		if err = fn(ctx); err == nil {
			return nil
		}
	}
	return err
}

// Fetch runs fn with retries and returns its value.
func Fetch[T any](ctx context.Context, b *Backoff, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := b.Do(ctx, func(ctx context.Context) error {
		var ferr error
		result, ferr = fn(ctx)
		return ferr
	})
	return result, err
}
