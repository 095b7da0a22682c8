package storage

import (
	"strings"
)

var (
	titleReplacer   = strings.NewReplacer(`\`, "", "/", "", "*", "", "?", "", ":", "", `"`, "", "<", "", ">", "", "|", "", " ", "_")
	channelReplacer = strings.NewReplacer(`\`, "", "/", "")
)

// SanitizeTitle makes a playlist title safe for use in a filename by
// dropping the characters \/*?:"<>| and replacing spaces with underscores.
func SanitizeTitle(title string) string {
	return titleReplacer.Replace(title)
}

// Filename returns the output filename for doc:
// "<channel_name>.json", or "<channel_name>_Playlist_<title>.json" for a
// playlist export.
func Filename(doc *Document) string {
	name := channelReplacer.Replace(doc.ChannelName)
	if doc.IsPlaylist && doc.PlaylistTitle != nil {
		return name + "_Playlist_" + SanitizeTitle(*doc.PlaylistTitle) + ".json"
	}
	return name + ".json"
}
