package youtube

import (
	"context"
	"fmt"
)

// ProgressFunc is called after every fetched page with the number of
// records collected so far and the total the API reported for the playlist.
type ProgressFunc func(collected int, total int64)

// ListUploads returns every video of a channel, newest first, by paging
// through the channel's uploads playlist.
func (c *Client) ListUploads(ctx context.Context, channelID string, progress ProgressFunc) ([]VideoRecord, error) {
	playlistID, err := c.UploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return c.ListPlaylist(ctx, playlistID, progress)
}

// UploadsPlaylistID returns the ID of the implicit playlist holding all
// uploads of a channel.
func (c *Client) UploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	channels, err := c.api.Channels(ctx, []string{"contentDetails"}, channelID)
	if err != nil {
		return "", err
	}
	if len(channels) == 0 {
		return "", lookupErrorf(ErrChannelNotFound, "no channel found with ID %q", channelID)
	}

	details := channels[0].ContentDetails
	if details == nil || details.RelatedPlaylists == nil || details.RelatedPlaylists.Uploads == "" {
		return "", fmt.Errorf("youtube: channel %s has no uploads playlist", channelID)
	}
	return details.RelatedPlaylists.Uploads, nil
}

// ListPlaylist returns every video of a playlist in playlist order. Pages of
// MaxPageSize items are requested until the API stops returning a
// continuation token.
func (c *Client) ListPlaylist(ctx context.Context, playlistID string, progress ProgressFunc) ([]VideoRecord, error) {
	videos := []VideoRecord{}
	pageToken := ""
	pages := 0

	for {
		page, err := c.api.PlaylistItems(ctx, playlistID, pageToken, MaxPageSize)
		if err != nil {
			return nil, err
		}
		pages++

		for _, item := range page.Items {
			if item.Snippet == nil || item.Snippet.ResourceId == nil || item.Snippet.ResourceId.VideoId == "" {
				c.log.Debugw("skipping playlist item without video", "playlist_id", playlistID, "item_id", item.Id)
				continue
			}
			snippet := item.Snippet
			videos = append(videos, VideoRecord{
				ID:           snippet.ResourceId.VideoId,
				Title:        snippet.Title,
				Description:  snippet.Description,
				URL:          WatchURL(snippet.ResourceId.VideoId),
				ThumbnailURL: BestThumbnail(snippet.Thumbnails),
			})
		}

		var total int64
		if page.PageInfo != nil {
			total = page.PageInfo.TotalResults
		}
		if progress != nil {
			progress(len(videos), total)
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.log.Infow("collected playlist", "playlist_id", playlistID, "videos", len(videos), "pages", pages)
	return videos, nil
}
