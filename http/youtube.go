package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// defaultRetryAfter is assumed when a rate limited response names no delay.
const defaultRetryAfter = 60 * time.Second

// IsRateLimited reports whether a Data API response signals rate limiting.
// 429 always does. 403 and 503 only do when they carry rate limit headers:
// the API also answers 403 for a bad key or an exhausted daily quota, and a
// bare 503 is an outage.
func IsRateLimited(statusCode int, header http.Header) bool {
	switch statusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden, http.StatusServiceUnavailable:
		return hasRateLimitHeaders(header)
	}
	return false
}

func hasRateLimitHeaders(header http.Header) bool {
	if header.Get("Retry-After") != "" {
		return true
	}
	if header.Get("X-RateLimit-Remaining") == "0" {
		return true
	}
	return header.Get("X-RateLimit-Reset") != ""
}

// RetryAfter extracts the server-requested delay from response headers.
// Integer seconds and HTTP dates are understood.
func RetryAfter(header http.Header) time.Duration {
	for _, h := range []string{"Retry-After", "X-RateLimit-Reset"} {
		v := strings.TrimSpace(header.Get(h))
		if v == "" {
			continue
		}
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
		if t, err := http.ParseTime(v); err == nil {
			if d := time.Until(t); d > 0 {
				return d
			}
		}
	}
	return defaultRetryAfter
}

// IsServerError checks if status code is a server error (5xx).
func IsServerError(statusCode int) bool {
	return statusCode >= 500 && statusCode < 600
}
