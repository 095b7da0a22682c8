// Package youtube resolves channel and playlist references and collects
// channel metadata and videos through the YouTube Data API v3.
package youtube

import "strings"

const (
	watchURLPrefix    = "https://www.youtube.com/watch?v="
	channelURLPrefix  = "https://www.youtube.com/channel/"
	playlistURLPrefix = "https://www.youtube.com/playlist?list="
)

// ChannelReference identifies a resolved channel.
type ChannelReference struct {
	// ID is the YouTube channel ID (e.g., "UCuAXFkgsw1L7xaCfnd5JJOw").
	ID string
	// Name is the channel title with "@" removed and spaces replaced by "_".
	Name string
}

// URL returns the canonical channel URL.
func (c ChannelReference) URL() string {
	return ChannelURL(c.ID)
}

// PlaylistReference identifies a resolved playlist.
type PlaylistReference struct {
	ID    string
	Title string
}

// URL returns the canonical playlist URL.
func (p PlaylistReference) URL() string {
	return PlaylistURL(p.ID)
}

// Resolution is the outcome of resolving user input.
type Resolution struct {
	Channel ChannelReference
	// Playlist is set only when the input designated a playlist.
	Playlist *PlaylistReference
}

// IsPlaylist reports whether the input designated a playlist.
func (r *Resolution) IsPlaylist() bool {
	return r.Playlist != nil
}

// Branding holds the channel's image URLs. Either may be nil.
type Branding struct {
	BannerURL *string
	AvatarURL *string
}

// VideoRecord is one video of a channel or playlist.
type VideoRecord struct {
	// ID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// URL is the watch URL built from ID.
	URL string `json:"url"`
	// ThumbnailURL is the best available thumbnail, nil when there is none.
	ThumbnailURL *string `json:"thumbnail_url"`
}

// WatchURL returns the full YouTube URL for a video ID.
func WatchURL(videoID string) string {
	return watchURLPrefix + videoID
}

// ChannelURL returns the full YouTube URL for a channel ID.
func ChannelURL(channelID string) string {
	return channelURLPrefix + channelID
}

// PlaylistURL returns the full YouTube URL for a playlist ID.
func PlaylistURL(playlistID string) string {
	return playlistURLPrefix + playlistID
}

// channelDisplayName turns a channel title into the name used in output
// documents and file names.
func channelDisplayName(title string) string {
	return strings.ReplaceAll(strings.ReplaceAll(title, "@", ""), " ", "_")
}
