package http

import (
	"net/http"

	"go.uber.org/zap"
)

// Transport is an http.RoundTripper that adds the API key and user agent to
// each request and waits on Limiter before sending it. Breaker, when set,
// fails requests fast once the host keeps erroring.
type Transport struct {
	// Base performs the actual request. http.DefaultTransport when nil.
	Base      http.RoundTripper
	APIKey    string
	UserAgent string
	Limiter   *RateLimiter
	Breaker   *CircuitBreaker
}

// RoundTrip implements http.RoundTripper. The caller's request is not
// modified.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	host := req.URL.Hostname()
	if err := t.Breaker.Allow(host); err != nil {
		closeBody(req)
		return nil, err
	}
	if err := t.Limiter.Wait(ctx, req.URL); err != nil {
		closeBody(req)
		return nil, err
	}

	r := req.Clone(ctx)
	if t.APIKey != "" {
		q := r.URL.Query()
		q.Set("key", t.APIKey)
		r.URL.RawQuery = q.Encode()
	}
	if t.UserAgent != "" && r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.UserAgent)
	}

	resp, err := t.base().RoundTrip(r)
	if err != nil {
		if ctx.Err() == nil {
			t.Breaker.RecordFailure(host)
		}
		return nil, err
	}

	// Any answer other than a server error shows the host is up; the
	// limiter handles rate limiting on its own.
	log := zap.S().Named("http")
	switch {
	case IsRateLimited(resp.StatusCode, resp.Header):
		t.Breaker.RecordSuccess(host)
		if t.Limiter != nil {
			backoff := t.Limiter.RecordRateLimitError(host, RetryAfter(resp.Header))
			log.Warnw("rate limited", "host", host, "status", resp.StatusCode, "backoff", backoff)
		}
	case IsServerError(resp.StatusCode):
		t.Breaker.RecordFailure(host)
		log.Warnw("server error", "host", host, "path", req.URL.Path, "status", resp.StatusCode,
			"circuit", t.Breaker.State(host))
	case resp.StatusCode < 300:
		if t.Limiter != nil {
			t.Limiter.RecordSuccess(host)
		}
		t.Breaker.RecordSuccess(host)
		log.Debugw("request", "host", host, "path", req.URL.Path, "status", resp.StatusCode)
	default:
		t.Breaker.RecordSuccess(host)
		log.Debugw("request failed", "host", host, "path", req.URL.Path, "status", resp.StatusCode)
	}

	return resp, nil
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		req.Body.Close()
	}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
