package youtube

import (
	"context"
	"strings"
)

// Resolve classifies input and resolves it to a channel and, for playlist
// input, the playlist. Name references are resolved by taking the first
// channel search hit.
func (c *Client) Resolve(ctx context.Context, input string) (*Resolution, error) {
	ref, err := ParseInput(input)
	if err != nil {
		return nil, err
	}
	c.log.Debugw("parsed input", "kind", ref.Kind, "value", ref.Value)

	switch {
	case ref.Kind == KindPlaylistID:
		return c.resolvePlaylist(ctx, ref.Value)
	case ref.Kind.IsName():
		return c.resolveName(ctx, ref)
	default:
		return c.resolveChannelID(ctx, ref.Value)
	}
}

func (c *Client) resolvePlaylist(ctx context.Context, playlistID string) (*Resolution, error) {
	playlists, err := c.api.Playlists(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if len(playlists) == 0 || playlists[0].Snippet == nil {
		return nil, lookupErrorf(ErrPlaylistNotFound, "no playlist found with ID %q", playlistID)
	}

	snippet := playlists[0].Snippet
	channels, err := c.api.Channels(ctx, []string{"snippet"}, snippet.ChannelId)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 || channels[0].Snippet == nil {
		return nil, lookupErrorf(ErrChannelNotFound, "no channel found for playlist %q", snippet.Title)
	}

	res := &Resolution{
		Channel: ChannelReference{
			ID:   snippet.ChannelId,
			Name: channelDisplayName(channels[0].Snippet.Title),
		},
		Playlist: &PlaylistReference{ID: playlistID, Title: snippet.Title},
	}
	c.log.Infow("found playlist", "playlist", snippet.Title, "channel", res.Channel.Name)
	return res, nil
}

func (c *Client) resolveChannelID(ctx context.Context, channelID string) (*Resolution, error) {
	channels, err := c.api.Channels(ctx, []string{"snippet"}, channelID)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 || channels[0].Snippet == nil {
		return nil, lookupErrorf(ErrChannelNotFound, "no channel found with ID %q", channelID)
	}

	res := &Resolution{
		Channel: ChannelReference{
			ID:   channelID,
			Name: channelDisplayName(channels[0].Snippet.Title),
		},
	}
	c.log.Infow("found channel", "channel", res.Channel.Name, "channel_id", channelID)
	return res, nil
}

func (c *Client) resolveName(ctx context.Context, ref Reference) (*Resolution, error) {
	results, err := c.api.SearchChannels(ctx, ref.Value, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 || results[0].Snippet == nil || results[0].Snippet.ChannelId == "" {
		if ref.Kind == KindHandle {
			return nil, lookupErrorf(ErrNoSearchResult, "no channel found with handle %q", ref.Value)
		}
		return nil, lookupErrorf(ErrNoSearchResult, "no channel found for %q", ref.Value)
	}

	snippet := results[0].Snippet
	if !sameName(ref.Value, snippet.ChannelTitle) {
		// The top hit is used regardless; the mismatch is only surfaced.
		c.log.Warnw("search result title differs from query, using top result",
			"query", ref.Value, "kind", ref.Kind, "channel", snippet.ChannelTitle, "channel_id", snippet.ChannelId)
	}

	res := &Resolution{
		Channel: ChannelReference{
			ID:   snippet.ChannelId,
			Name: channelDisplayName(snippet.ChannelTitle),
		},
	}
	c.log.Infow("found channel by search", "query", ref.Value, "channel_id", res.Channel.ID)
	return res, nil
}

// sameName compares a queried name with a channel title, ignoring case,
// "@", spaces, underscores and dashes.
func sameName(query, title string) bool {
	norm := strings.NewReplacer("@", "", " ", "", "_", "", "-", "").Replace
	return strings.EqualFold(norm(query), norm(title))
}
