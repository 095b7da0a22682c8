package http

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Backoff bounds applied after the API signals rate limiting.
const (
	InitialBackoff    = 1 * time.Second
	MaxBackoff        = 60 * time.Second
	BackoffMultiplier = 2.0
)

// BackoffState tracks rate limit backoff for a host.
type BackoffState struct {
	// CurrentBackoff is the current backoff duration
	CurrentBackoff time.Duration
	// LastError is when the last rate limit response arrived
	LastError time.Time
	// ConsecutiveErrors is the count of consecutive rate limit responses
	ConsecutiveErrors int
}

// RateLimiter paces requests per host with a token bucket and holds back
// requests to hosts that recently answered with a rate limit.
type RateLimiter struct {
	rps          float64
	limiters     map[string]*rate.Limiter
	backoffState map[string]*BackoffState
	mu           sync.Mutex
}

// NewRateLimiter creates a limiter allowing rps requests per second per
// host. rps <= 0 disables pacing; backoff tracking stays active.
func NewRateLimiter(rps float64) *RateLimiter {
	return &RateLimiter{
		rps:          rps,
		limiters:     make(map[string]*rate.Limiter),
		backoffState: make(map[string]*BackoffState),
	}
}

// Wait blocks until a request to u may be sent, honouring any backoff first.
func (rl *RateLimiter) Wait(ctx context.Context, u *url.URL) error {
	if rl == nil {
		return nil
	}
	if err := rl.waitForBackoff(ctx, u.Hostname()); err != nil {
		return err
	}
	limiter := rl.limiter(u.Hostname())
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

func (rl *RateLimiter) limiter(host string) *rate.Limiter {
	if rl.rps <= 0 {
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limiters[host]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Limit(rl.rps), 1)
	rl.limiters[host] = limiter
	return limiter
}

// RecordRateLimitError records a rate limit response from host and returns
// how long following requests will be held back.
func (rl *RateLimiter) RecordRateLimitError(host string, retryAfter time.Duration) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	state, ok := rl.backoffState[host]
	if !ok {
		state = &BackoffState{CurrentBackoff: InitialBackoff}
		rl.backoffState[host] = state
	}
	state.LastError = time.Now()
	state.ConsecutiveErrors++

	if state.ConsecutiveErrors > 1 {
		state.CurrentBackoff = time.Duration(float64(state.CurrentBackoff) * BackoffMultiplier)
		if state.CurrentBackoff > MaxBackoff {
			state.CurrentBackoff = MaxBackoff
		}
	}
	if retryAfter > state.CurrentBackoff {
		state.CurrentBackoff = retryAfter
	}
	return state.CurrentBackoff
}

// RecordSuccess clears the backoff state for host.
func (rl *RateLimiter) RecordSuccess(host string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.backoffState, host)
}

// GetBackoffState returns a copy of the backoff state for host, or nil.
func (rl *RateLimiter) GetBackoffState(host string) *BackoffState {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if state, ok := rl.backoffState[host]; ok {
		cp := *state
		return &cp
	}
	return nil
}

func (rl *RateLimiter) waitForBackoff(ctx context.Context, host string) error {
	state := rl.GetBackoffState(host)
	if state == nil {
		return nil
	}

	remaining := state.CurrentBackoff - time.Since(state.LastError)
	if remaining <= 0 {
		return nil
	}

	select {
	case <-time.After(remaining):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
