package storage

import (
	"ytexport/youtube"
)

// Document is the exported JSON file. Field order is the key order of the
// file. The playlist fields are omitted entirely for channel exports.
type Document struct {
	ChannelID   string  `json:"channel_id"`
	ChannelName string  `json:"channel_name"`
	ChannelURL  string  `json:"channel_url"`
	BannerURL   *string `json:"banner_url"`
	AvatarURL   *string `json:"avatar_url"`
	IsPlaylist  bool    `json:"is_playlist"`

	PlaylistID    *string `json:"playlist_id,omitempty"`
	PlaylistTitle *string `json:"playlist_title,omitempty"`
	PlaylistURL   *string `json:"playlist_url,omitempty"`

	Videos []youtube.VideoRecord `json:"videos"`
}

// NewDocument assembles a Document from the results of a run. branding may
// be nil, in which case both image URLs are null.
func NewDocument(res *youtube.Resolution, branding *youtube.Branding, videos []youtube.VideoRecord) *Document {
	if videos == nil {
		videos = []youtube.VideoRecord{}
	}

	doc := &Document{
		ChannelID:   res.Channel.ID,
		ChannelName: res.Channel.Name,
		ChannelURL:  res.Channel.URL(),
		Videos:      videos,
	}
	if branding != nil {
		doc.BannerURL = branding.BannerURL
		doc.AvatarURL = branding.AvatarURL
	}

	if res.IsPlaylist() {
		id, title, url := res.Playlist.ID, res.Playlist.Title, res.Playlist.URL()
		doc.IsPlaylist = true
		doc.PlaylistID = &id
		doc.PlaylistTitle = &title
		doc.PlaylistURL = &url
	}
	return doc
}
