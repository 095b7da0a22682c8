package youtube

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	ythttp "ytexport/http"
	"ytexport/internal/retry"
)

// Sentinel errors for lookup failures. They are always wrapped in a
// *LookupError carrying the user-facing message.
var (
	ErrEmptyInput       = errors.New("youtube: empty input")
	ErrInvalidURL       = errors.New("youtube: invalid YouTube URL")
	ErrUnrecognizedURL  = errors.New("youtube: unrecognized URL")
	ErrPlaylistNotFound = errors.New("youtube: playlist not found")
	ErrChannelNotFound  = errors.New("youtube: channel not found")
	ErrNoSearchResult   = errors.New("youtube: no search result")
)

// LookupError reports input that could not be resolved to a channel or
// playlist. Its message is meant for the user as is.
// Use errors.As() to tell it apart from API and network failures:
//
//	var lookupErr *youtube.LookupError
//	if errors.As(err, &lookupErr) {
//		fmt.Println(lookupErr.Message)
//	}
type LookupError struct {
	// Message is the user-facing description.
	Message string
	// Err is one of the sentinel errors above.
	Err error
}

func lookupErrorf(sentinel error, format string, args ...any) *LookupError {
	return &LookupError{Message: fmt.Sprintf(format, args...), Err: sentinel}
}

// Error returns the user-facing message.
func (e *LookupError) Error() string { return e.Message }

// Unwrap returns the sentinel error for use with errors.Is().
func (e *LookupError) Unwrap() error { return e.Err }

// IsLookupError reports whether err is, or wraps, a *LookupError.
func IsLookupError(err error) bool {
	var lookupErr *LookupError
	return errors.As(err, &lookupErr)
}

var quotaReasons = map[string]bool{
	"quotaExceeded":         true,
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"dailyLimitExceeded":    true,
}

// IsQuotaExceeded reports whether err is a Data API error caused by quota
// exhaustion or rate limiting.
func IsQuotaExceeded(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, item := range apiErr.Errors {
		if quotaReasons[item.Reason] {
			return true
		}
	}
	return apiErr.Code == http.StatusTooManyRequests
}

// markPermanent wraps errors that cannot clear within a retry window with
// retry.Permanent: an exhausted daily quota and an open circuit.
func markPermanent(err error) error {
	if errors.Is(err, ythttp.ErrCircuitOpen) {
		return retry.Permanent(err)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		for _, item := range apiErr.Errors {
			if item.Reason == "quotaExceeded" || item.Reason == "dailyLimitExceeded" {
				return retry.Permanent(err)
			}
		}
	}
	return err
}

// apiErrorClassifier determines if an API error is retryable. Errors that
// retry.IsRetryable rejects, lookup failures and client errors other than
// rate limiting are permanent; 5xx, rate limiting and transport failures are
// retried.
func apiErrorClassifier(err error) bool {
	if !retry.IsRetryable(err) || IsLookupError(err) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code >= 500 {
			return true
		}
		return IsQuotaExceeded(err)
	}

	return true
}
