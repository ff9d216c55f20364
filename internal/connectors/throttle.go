package connectors

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"google.golang.org/api/googleapi"
)

const throttleAttempts = 5

// Throttle spaces out calls to a remote API and retries quota and server
// errors with jittered exponential backoff. A nil Throttle calls straight
// through.
type Throttle struct {
	mu            sync.Mutex
	nextAllowedAt time.Time
	interval      time.Duration
	backoff       time.Duration
}

// NewThrottle allows requestsPerSecond calls; zero or less means no spacing.
func NewThrottle(requestsPerSecond int) *Throttle {
	t := &Throttle{backoff: 250 * time.Millisecond}
	if requestsPerSecond > 0 {
		t.interval = time.Second / time.Duration(requestsPerSecond)
	}
	return t
}

func (t *Throttle) waitTurn(ctx context.Context) error {
	t.mu.Lock()
	now := time.Now()
	scheduled := now
	if t.nextAllowedAt.After(now) {
		scheduled = t.nextAllowedAt
	}
	t.nextAllowedAt = scheduled.Add(t.interval)
	t.mu.Unlock()

	return sleep(ctx, time.Until(scheduled))
}

// Do runs fn, retrying while it fails with a retryable status.
func (t *Throttle) Do(ctx context.Context, fn func() error) error {
	if t == nil {
		return fn()
	}
	var err error
	for attempt := 1; attempt <= throttleAttempts; attempt++ {
		if werr := t.waitTurn(ctx); werr != nil {
			return werr
		}
		err = fn()
		if err == nil || !IsRetryable(err) || attempt == throttleAttempts {
			return err
		}
		wait := t.backoff*time.Duration(1<<(attempt-1)) + time.Duration(rand.Intn(100))*time.Millisecond
		if werr := sleep(ctx, wait); werr != nil {
			return err
		}
	}
	return err
}

// IsRetryable reports whether err is a Google API quota or server error.
func IsRetryable(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	switch gerr.Code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
