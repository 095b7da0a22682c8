package ytexport

import (
	ythttp "ytexport/http"
	"ytexport/internal/retry"
	"ytexport/storage"
	"ytexport/youtube"
)

// Type aliases for convenient error handling.
type (
	// LookupError reports input that could not be resolved.
	LookupError = youtube.LookupError
	// RetryableError wraps errors that persisted after all retries.
	RetryableError = retry.RetryableError
	// StorageError wraps errors while writing the export.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	ErrEmptyInput       = youtube.ErrEmptyInput
	ErrInvalidURL       = youtube.ErrInvalidURL
	ErrUnrecognizedURL  = youtube.ErrUnrecognizedURL
	ErrPlaylistNotFound = youtube.ErrPlaylistNotFound
	ErrChannelNotFound  = youtube.ErrChannelNotFound
	ErrNoSearchResult   = youtube.ErrNoSearchResult

	// ErrMissingAPIKey indicates no developer key was configured.
	ErrMissingAPIKey = ythttp.ErrMissingAPIKey

	// ErrLockTimeout indicates another run held the output file too long.
	ErrLockTimeout = storage.ErrLockTimeout
)

// IsLookupError reports whether err comes from resolving the input, as
// opposed to an API, network or filesystem failure.
func IsLookupError(err error) bool {
	return youtube.IsLookupError(err)
}

// IsQuotaExceeded reports whether err was caused by API quota or rate
// limiting.
func IsQuotaExceeded(err error) bool {
	return youtube.IsQuotaExceeded(err)
}
