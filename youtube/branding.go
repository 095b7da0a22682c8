package youtube

import (
	"context"
	"strings"

	"google.golang.org/api/youtube/v3"
)

// bannerWidthHint asks the image server for a full-HD render of the banner.
const bannerWidthHint = "=w1920"

// FetchBranding retrieves the banner and avatar URLs of a channel. A
// channel without either image is not an error; the field stays nil.
func (c *Client) FetchBranding(ctx context.Context, channelID string) (*Branding, error) {
	channels, err := c.api.Channels(ctx, []string{"brandingSettings", "snippet"}, channelID)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, lookupErrorf(ErrChannelNotFound, "no channel found with ID %q", channelID)
	}

	channel := channels[0]
	branding := &Branding{}
	if channel.BrandingSettings != nil {
		if banner := BestBanner(channel.BrandingSettings.Image); banner != "" {
			banner += bannerWidthHint
			branding.BannerURL = &banner
		}
	}
	if channel.Snippet != nil && channel.Snippet.Thumbnails != nil && channel.Snippet.Thumbnails.High != nil {
		if avatar := NormalizeURL(channel.Snippet.Thumbnails.High.Url); avatar != "" {
			branding.AvatarURL = &avatar
		}
	}

	c.log.Debugw("fetched branding", "channel_id", channelID,
		"has_banner", branding.BannerURL != nil, "has_avatar", branding.AvatarURL != nil)
	return branding, nil
}

// BestBanner returns the highest quality banner URL present in img,
// normalized, or "" when there is none. Priority: external URL, then
// mobile extra-HD, mobile HD, tablet extra-HD, tablet HD.
func BestBanner(img *youtube.ImageSettings) string {
	if img == nil {
		return ""
	}
	for _, candidate := range []string{
		img.BannerExternalUrl,
		img.BannerMobileExtraHdImageUrl,
		img.BannerMobileHdImageUrl,
		img.BannerTabletExtraHdImageUrl,
		img.BannerTabletHdImageUrl,
	} {
		if candidate != "" {
			return NormalizeURL(candidate)
		}
	}
	return ""
}

// BestThumbnail returns the highest quality thumbnail URL present in
// details, normalized, or nil. Priority: maxres, standard, high, medium,
// default.
func BestThumbnail(details *youtube.ThumbnailDetails) *string {
	if details == nil {
		return nil
	}
	for _, thumb := range []*youtube.Thumbnail{
		details.Maxres,
		details.Standard,
		details.High,
		details.Medium,
		details.Default,
	} {
		if thumb != nil && thumb.Url != "" {
			u := NormalizeURL(thumb.Url)
			return &u
		}
	}
	return nil
}

// NormalizeURL turns a protocol-relative URL ("//host/path") into an
// explicit https URL. Other values are returned unchanged.
func NormalizeURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
