package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	ythttp "ytexport/http"
	"ytexport/internal/retry"
)

// newTestServiceAPI points a ServiceAPI at handler, going through the same
// authenticated client the exporter uses.
func newTestServiceAPI(t *testing.T, handler http.HandlerFunc) *ServiceAPI {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := ythttp.DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.RequestsPerSecond = 0
	client, err := ythttp.New(cfg)
	require.NoError(t, err)

	service, err := NewService(context.Background(), client)
	require.NoError(t, err)
	service.BasePath = srv.URL + "/"

	return NewServiceAPI(service)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func apiError(code int, reason string) map[string]any {
	return map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": reason,
			"errors":  []map[string]any{{"reason": reason, "message": reason}},
		},
	}
}

func TestServiceAPIChannels(t *testing.T) {
	api := newTestServiceAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/channels", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "brandingSettings,snippet", q.Get("part"))
		assert.Equal(t, "UCabc", q.Get("id"))

		writeJSON(w, http.StatusOK, map[string]any{
			"items": []map[string]any{{
				"id":      "UCabc",
				"snippet": map[string]any{"title": "Chan"},
			}},
		})
	})

	channels, err := api.Channels(context.Background(), []string{"brandingSettings", "snippet"}, "UCabc")
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "Chan", channels[0].Snippet.Title)
}

func TestServiceAPIPlaylistItemsPageToken(t *testing.T) {
	var tokens []string
	api := newTestServiceAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/playlistItems", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "UUabc", q.Get("playlistId"))
		assert.Equal(t, "50", q.Get("maxResults"))
		tokens = append(tokens, q.Get("pageToken"))

		writeJSON(w, http.StatusOK, map[string]any{
			"nextPageToken": "next",
			"pageInfo":      map[string]any{"totalResults": 120, "resultsPerPage": 50},
			"items": []map[string]any{{
				"snippet": map[string]any{
					"title":      "First",
					"resourceId": map[string]any{"kind": "youtube#video", "videoId": "vid1"},
				},
			}},
		})
	})

	page, err := api.PlaylistItems(context.Background(), "UUabc", "", MaxPageSize)
	require.NoError(t, err)
	assert.Equal(t, "next", page.NextPageToken)
	assert.EqualValues(t, 120, page.PageInfo.TotalResults)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "vid1", page.Items[0].Snippet.ResourceId.VideoId)

	_, err = api.PlaylistItems(context.Background(), "UUabc", "next", MaxPageSize)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "next"}, tokens)
}

func TestServiceAPISearchChannels(t *testing.T) {
	api := newTestServiceAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "veritasium", q.Get("q"))
		assert.Equal(t, "channel", q.Get("type"))
		assert.Equal(t, "1", q.Get("maxResults"))

		writeJSON(w, http.StatusOK, map[string]any{
			"items": []map[string]any{{
				"id":      map[string]any{"kind": "youtube#channel", "channelId": "UCver"},
				"snippet": map[string]any{"channelId": "UCver", "channelTitle": "Veritasium"},
			}},
		})
	})

	results, err := api.SearchChannels(context.Background(), "veritasium", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "UCver", results[0].Snippet.ChannelId)
}

func TestServiceAPIFailsFastByDefault(t *testing.T) {
	var calls atomic.Int32
	api := newTestServiceAPI(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, apiError(500, "backendError"))
	})

	_, err := api.Playlists(context.Background(), "PLx")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())

	var apiErr *googleapi.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Code)
	assert.False(t, IsLookupError(err))
}

func TestServiceAPIRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	api := newTestServiceAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusInternalServerError, apiError(500, "backendError"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []map[string]any{{"id": "PLx", "snippet": map[string]any{"title": "Mix"}}},
		})
	})
	api.RetryConfig.MaxRetries = 3
	api.RetryConfig.InitialBackoff = time.Millisecond
	api.RetryConfig.MaxBackoff = 5 * time.Millisecond

	playlists, err := api.Playlists(context.Background(), "PLx")
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, "Mix", playlists[0].Snippet.Title)
	assert.Equal(t, int32(3), calls.Load())
}

func TestServiceAPIDoesNotRetryQuota(t *testing.T) {
	var calls atomic.Int32
	api := newTestServiceAPI(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusForbidden, apiError(403, "quotaExceeded"))
	})
	api.RetryConfig.MaxRetries = 3
	api.RetryConfig.InitialBackoff = time.Millisecond

	_, err := api.Channels(context.Background(), []string{"snippet"}, "UCabc")
	require.Error(t, err)
	assert.True(t, IsQuotaExceeded(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestIsQuotaExceeded(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"quota", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}}}, true},
		{"user rate limit", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "userRateLimitExceeded"}}}, true},
		{"too many requests", &googleapi.Error{Code: 429}, true},
		{"forbidden", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "forbidden"}}}, false},
		{"wrapped", fmt.Errorf("channels.list: %w", &googleapi.Error{Code: 429}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsQuotaExceeded(tt.err))
		})
	}
}

func TestAPIErrorClassifier(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"lookup", lookupErrorf(ErrChannelNotFound, "no channel"), false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), false},
		{"server error", &googleapi.Error{Code: 503}, true},
		{"daily quota", markPermanent(&googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}}}), false},
		{"rate limit", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}}}, true},
		{"bad request", &googleapi.Error{Code: 400}, false},
		{"not found", &googleapi.Error{Code: 404}, false},
		{"transport", errors.New("connection reset by peer"), true},
		{"circuit open", markPermanent(fmt.Errorf("Get: %w", ythttp.ErrCircuitOpen)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apiErrorClassifier(tt.err))
		})
	}
}

func TestMarkPermanent(t *testing.T) {
	assert.Nil(t, markPermanent(nil))

	serverErr := &googleapi.Error{Code: 500}
	assert.Same(t, serverErr, markPermanent(serverErr))

	rateErr := &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}}}
	assert.True(t, retry.IsRetryable(markPermanent(rateErr)))

	quotaErr := &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "dailyLimitExceeded"}}}
	marked := markPermanent(quotaErr)
	assert.False(t, retry.IsRetryable(marked))
	assert.True(t, IsQuotaExceeded(marked))

	var apiErr *googleapi.Error
	require.True(t, errors.As(marked, &apiErr))
	assert.Same(t, quotaErr, apiErr)

	circuitErr := markPermanent(fmt.Errorf("Get: %w", ythttp.ErrCircuitOpen))
	assert.False(t, retry.IsRetryable(circuitErr))
	assert.ErrorIs(t, circuitErr, ythttp.ErrCircuitOpen)
}
