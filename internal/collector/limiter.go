package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"
)

// RetryPolicy retries a failed request with a linearly growing pause.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// Do runs fn until it succeeds, retries are exhausted, or ctx is done.
func (p RetryPolicy) Do(ctx context.Context, what string, fn func() error) error {
	var lastErr error
	for i := 0; i <= p.MaxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if i == p.MaxRetries {
			break
		}
		wait := p.Backoff * time.Duration(i+1)
		log.Printf("[WARN] %s failed (attempt %d/%d): %v, retrying in %v", what, i+1, p.MaxRetries+1, err, wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("%s: all %d attempts failed: %w", what, p.MaxRetries+1, lastErr)
}

// Limiter paces requests to one exchange.
type Limiter struct {
	rl *rate.Limiter
}

// NewLimiter allows perSecond requests with the given burst.
func NewLimiter(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{rl: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until a request may be sent.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.rl.Wait(ctx)
}
