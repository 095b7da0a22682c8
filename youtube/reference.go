package youtube

import (
	"net/url"
	"strings"
)

// Kind classifies what a user-supplied reference points at.
type Kind int

const (
	// KindChannelID is a literal channel ID such as "UCuAXFkgsw1L7xaCfnd5JJOw".
	KindChannelID Kind = iota
	// KindPlaylistID is a literal playlist ID such as "PL590L5WQmH8fJ54F369BLDSqIwcs-TCfs".
	KindPlaylistID
	// KindHandle is an "@name" handle, stored without the "@".
	KindHandle
	// KindCustomName is the name from a /c/<name> URL.
	KindCustomName
	// KindUsername is the name from a legacy /user/<name> URL.
	KindUsername
)

// String returns the string representation of a reference kind.
func (k Kind) String() string {
	switch k {
	case KindChannelID:
		return "channel"
	case KindPlaylistID:
		return "playlist"
	case KindHandle:
		return "handle"
	case KindCustomName:
		return "custom"
	case KindUsername:
		return "user"
	default:
		return "unknown"
	}
}

// IsName reports whether the reference must be resolved through a search.
func (k Kind) IsName() bool {
	return k == KindHandle || k == KindCustomName || k == KindUsername
}

// Reference is a classified but not yet resolved user input.
type Reference struct {
	Kind Kind
	// Value is the ID for ID kinds and the name for name kinds.
	Value string
}

// ParseInput classifies a channel or playlist identifier, handle or URL.
//
// Rules, in priority order: a string starting with "http" is parsed as a
// URL, "@" starts a handle, "PL" starts a playlist ID, and anything else is
// taken as a channel ID.
func ParseInput(input string) (Reference, error) {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return Reference{}, lookupErrorf(ErrEmptyInput, "no channel or playlist given")
	case strings.HasPrefix(input, "http"):
		return ParseURL(input)
	case strings.HasPrefix(input, "@"):
		handle := input[1:]
		if handle == "" {
			return Reference{}, lookupErrorf(ErrEmptyInput, "empty handle: %q", input)
		}
		return Reference{Kind: KindHandle, Value: handle}, nil
	case strings.HasPrefix(input, "PL"):
		return Reference{Kind: KindPlaylistID, Value: input}, nil
	default:
		return Reference{Kind: KindChannelID, Value: input}, nil
	}
}

// ParseURL extracts a reference from a youtube.com or youtu.be URL.
// Recognized shapes are /playlist?list=<id>, /channel/<id>, /user/<name>,
// /c/<name> and /@<handle>; the captured segment ends at the next "/".
func ParseURL(raw string) (Reference, error) {
	u, err := url.Parse(raw)
	if err != nil || !isYouTubeHost(u.Hostname()) {
		return Reference{}, lookupErrorf(ErrInvalidURL, "invalid YouTube URL: %s", raw)
	}

	path := u.Path
	if strings.Contains(path, "/playlist") {
		if list := u.Query().Get("list"); list != "" {
			return Reference{Kind: KindPlaylistID, Value: list}, nil
		}
	}

	shapes := []struct {
		marker string
		kind   Kind
	}{
		{"/channel/", KindChannelID},
		{"/user/", KindUsername},
		{"/c/", KindCustomName},
		{"/@", KindHandle},
	}
	for _, shape := range shapes {
		if value, ok := segmentAfter(path, shape.marker); ok {
			return Reference{Kind: shape.kind, Value: value}, nil
		}
	}

	return Reference{}, lookupErrorf(ErrUnrecognizedURL,
		"could not extract a channel or playlist ID from URL: %s", raw)
}

// segmentAfter returns the path segment following marker.
func segmentAfter(path, marker string) (string, bool) {
	idx := strings.Index(path, marker)
	if idx < 0 {
		return "", false
	}
	rest := path[idx+len(marker):]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest, rest != ""
}

func isYouTubeHost(host string) bool {
	host = strings.ToLower(host)
	for _, domain := range []string{"youtube.com", "youtu.be"} {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
