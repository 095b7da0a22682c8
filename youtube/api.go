package youtube

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ytexport/internal/retry"
)

// MaxPageSize is the largest page playlistItems.list returns.
const MaxPageSize = 50

// DataAPI is the subset of the YouTube Data API v3 used here.
// ServiceAPI implements it over the generated client; tests substitute fakes.
type DataAPI interface {
	// Channels calls channels.list for a single channel ID.
	Channels(ctx context.Context, parts []string, id string) ([]*youtube.Channel, error)
	// Playlists calls playlists.list (part snippet) for a single playlist ID.
	Playlists(ctx context.Context, id string) ([]*youtube.Playlist, error)
	// PlaylistItems calls playlistItems.list (part snippet) for one page.
	PlaylistItems(ctx context.Context, playlistID, pageToken string, maxResults int64) (*youtube.PlaylistItemListResponse, error)
	// SearchChannels calls search.list (part snippet, type channel).
	SearchChannels(ctx context.Context, query string, maxResults int64) ([]*youtube.SearchResult, error)
}

// NewService creates a Data API service that sends every request through
// client. The client is expected to authenticate requests itself; see
// ytexport/http.New.
func NewService(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*youtube.Service, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return service, nil
}

// ServiceAPI implements DataAPI using the generated client, retrying each
// call according to RetryConfig.
type ServiceAPI struct {
	service     *youtube.Service
	RetryConfig retry.Config
}

// NewServiceAPI wraps service. Retries are off until RetryConfig says otherwise.
func NewServiceAPI(service *youtube.Service) *ServiceAPI {
	return &ServiceAPI{
		service:     service,
		RetryConfig: retry.DefaultConfig(),
	}
}

func (a *ServiceAPI) do(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, a.RetryConfig, apiErrorClassifier, func(ctx context.Context) error {
		return markPermanent(fn(ctx))
	})
}

// Channels implements DataAPI.
func (a *ServiceAPI) Channels(ctx context.Context, parts []string, id string) ([]*youtube.Channel, error) {
	var items []*youtube.Channel
	err := a.do(ctx, func(ctx context.Context) error {
		resp, err := a.service.Channels.List(parts).Id(id).Context(ctx).Do()
		if err != nil {
			return err
		}
		items = resp.Items
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("channels.list %s: %w", id, err)
	}
	return items, nil
}

// Playlists implements DataAPI.
func (a *ServiceAPI) Playlists(ctx context.Context, id string) ([]*youtube.Playlist, error) {
	var items []*youtube.Playlist
	err := a.do(ctx, func(ctx context.Context) error {
		resp, err := a.service.Playlists.List([]string{"snippet"}).Id(id).Context(ctx).Do()
		if err != nil {
			return err
		}
		items = resp.Items
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("playlists.list %s: %w", id, err)
	}
	return items, nil
}

// PlaylistItems implements DataAPI.
func (a *ServiceAPI) PlaylistItems(ctx context.Context, playlistID, pageToken string, maxResults int64) (*youtube.PlaylistItemListResponse, error) {
	var page *youtube.PlaylistItemListResponse
	err := a.do(ctx, func(ctx context.Context) error {
		call := a.service.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(playlistID).
			MaxResults(maxResults).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return err
		}
		page = resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("playlistItems.list %s: %w", playlistID, err)
	}
	return page, nil
}

// SearchChannels implements DataAPI.
func (a *ServiceAPI) SearchChannels(ctx context.Context, query string, maxResults int64) ([]*youtube.SearchResult, error) {
	var items []*youtube.SearchResult
	err := a.do(ctx, func(ctx context.Context) error {
		resp, err := a.service.Search.List([]string{"snippet"}).
			Q(query).
			Type("channel").
			MaxResults(maxResults).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		items = resp.Items
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search.list %q: %w", query, err)
	}
	return items, nil
}

// Client resolves references and collects metadata and videos on top of a
// DataAPI. Calls are issued one at a time in the order of the run.
type Client struct {
	api DataAPI
	log *zap.SugaredLogger
}

// NewClient returns a Client using api.
func NewClient(api DataAPI) *Client {
	return &Client{
		api: api,
		log: zap.S().Named("youtube"),
	}
}

// WithLogger returns a copy of c logging to log.
func (c *Client) WithLogger(log *zap.SugaredLogger) *Client {
	cp := *c
	cp.log = log.Named("youtube")
	return &cp
}
