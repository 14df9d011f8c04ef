package embedding

import (
	"context"
	"time"
)

// RetryPolicy bounds the immediate retries applied to embedding calls. The
// policy performs no backoff beyond a fixed delay; anything smarter belongs
// to the caller.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration

	// Sleep is the delay function; nil means time.Sleep. Tests inject a
	// no-op to run retries instantly.
	Sleep func(time.Duration)
}

// DefaultRetryPolicy is three attempts half a second apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: 500 * time.Millisecond}
}

// Do invokes fn up to MaxAttempts times, sleeping Delay between attempts,
// and returns the last error. Context cancellation stops retrying early.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 && p.Delay > 0 {
			sleep(p.Delay)
		}
	}
	return err
}
