package youtube

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/youtube/v3"
)

// fakeAPI is an in-memory DataAPI. Pages are keyed by playlist ID and then
// by page token ("" for the first page).
type fakeAPI struct {
	channels  map[string]*youtube.Channel
	playlists map[string]*youtube.Playlist
	pages     map[string]map[string]*youtube.PlaylistItemListResponse
	search    map[string][]*youtube.SearchResult

	// err, when set, is returned by every call.
	err   error
	calls []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		channels:  map[string]*youtube.Channel{},
		playlists: map[string]*youtube.Playlist{},
		pages:     map[string]map[string]*youtube.PlaylistItemListResponse{},
		search:    map[string][]*youtube.SearchResult{},
	}
}

func (f *fakeAPI) Channels(ctx context.Context, parts []string, id string) ([]*youtube.Channel, error) {
	f.calls = append(f.calls, fmt.Sprintf("channels(%s,%s)", strings.Join(parts, ","), id))
	if f.err != nil {
		return nil, f.err
	}
	if ch, ok := f.channels[id]; ok {
		return []*youtube.Channel{ch}, nil
	}
	return nil, nil
}

func (f *fakeAPI) Playlists(ctx context.Context, id string) ([]*youtube.Playlist, error) {
	f.calls = append(f.calls, fmt.Sprintf("playlists(%s)", id))
	if f.err != nil {
		return nil, f.err
	}
	if pl, ok := f.playlists[id]; ok {
		return []*youtube.Playlist{pl}, nil
	}
	return nil, nil
}

func (f *fakeAPI) PlaylistItems(ctx context.Context, playlistID, pageToken string, maxResults int64) (*youtube.PlaylistItemListResponse, error) {
	f.calls = append(f.calls, fmt.Sprintf("playlistItems(%s,%q,%d)", playlistID, pageToken, maxResults))
	if f.err != nil {
		return nil, f.err
	}
	page, ok := f.pages[playlistID][pageToken]
	if !ok {
		return &youtube.PlaylistItemListResponse{}, nil
	}
	return page, nil
}

func (f *fakeAPI) SearchChannels(ctx context.Context, query string, maxResults int64) ([]*youtube.SearchResult, error) {
	f.calls = append(f.calls, fmt.Sprintf("search(%s,%d)", query, maxResults))
	if f.err != nil {
		return nil, f.err
	}
	results := f.search[query]
	if int64(len(results)) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

func (f *fakeAPI) addChannel(id, title string) *youtube.Channel {
	ch := &youtube.Channel{
		Id:      id,
		Snippet: &youtube.ChannelSnippet{Title: title},
		ContentDetails: &youtube.ChannelContentDetails{
			RelatedPlaylists: &youtube.ChannelContentDetailsRelatedPlaylists{Uploads: "UU" + strings.TrimPrefix(id, "UC")},
		},
	}
	f.channels[id] = ch
	return ch
}

func (f *fakeAPI) addPlaylist(id, title, channelID string) {
	f.playlists[id] = &youtube.Playlist{
		Id:      id,
		Snippet: &youtube.PlaylistSnippet{Title: title, ChannelId: channelID},
	}
}

// addPages registers consecutive pages of the given sizes for playlistID.
// Video IDs are "<playlistID>-<n>" numbered across pages from 0.
func (f *fakeAPI) addPages(playlistID string, sizes ...int) {
	total := 0
	for _, n := range sizes {
		total += n
	}

	pages := map[string]*youtube.PlaylistItemListResponse{}
	n := 0
	for i, size := range sizes {
		token := ""
		if i > 0 {
			token = fmt.Sprintf("token-%d", i)
		}
		page := &youtube.PlaylistItemListResponse{
			PageInfo: &youtube.PageInfo{TotalResults: int64(total), ResultsPerPage: MaxPageSize},
		}
		for j := 0; j < size; j++ {
			page.Items = append(page.Items, playlistItem(fmt.Sprintf("%s-%d", playlistID, n), fmt.Sprintf("Video %d", n)))
			n++
		}
		if i < len(sizes)-1 {
			page.NextPageToken = fmt.Sprintf("token-%d", i+1)
		}
		pages[token] = page
	}
	f.pages[playlistID] = pages
}

func playlistItem(videoID, title string) *youtube.PlaylistItem {
	return &youtube.PlaylistItem{
		Id: "item-" + videoID,
		Snippet: &youtube.PlaylistItemSnippet{
			Title:       title,
			Description: "About " + title,
			ResourceId:  &youtube.ResourceId{Kind: "youtube#video", VideoId: videoID},
			Thumbnails: &youtube.ThumbnailDetails{
				High:    &youtube.Thumbnail{Url: "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg"},
				Default: &youtube.Thumbnail{Url: "https://i.ytimg.com/vi/" + videoID + "/default.jpg"},
			},
		},
	}
}

func searchResult(channelID, title string) *youtube.SearchResult {
	return &youtube.SearchResult{
		Id:      &youtube.ResourceId{Kind: "youtube#channel", ChannelId: channelID},
		Snippet: &youtube.SearchResultSnippet{ChannelId: channelID, ChannelTitle: title, Title: title},
	}
}
