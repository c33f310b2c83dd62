package social

import "Storefront/internal/core/feeds"

// Degraded-feed reasons that do not come from the API itself.
const (
	ReasonMissingToken = "Access token not configured"
	ReasonTimeout      = "API timeout"
	ReasonAPIError     = "API error"
)

// MediaType is the kind of a post.
type MediaType string

const (
	MediaImage    MediaType = "IMAGE"
	MediaVideo    MediaType = "VIDEO"
	MediaCarousel MediaType = "CAROUSEL_ALBUM"
)

// parseMediaType maps unknown or missing kinds to MediaImage.
func parseMediaType(s string) MediaType {
	switch MediaType(s) {
	case MediaVideo, MediaCarousel:
		return MediaType(s)
	default:
		return MediaImage
	}
}

// Media is a normalized post. MediaURL is the thumbnail for videos when one exists.
type Media struct {
	ID        string    `json:"id"`
	Caption   string    `json:"caption"`
	MediaType MediaType `json:"media_type"`
	MediaURL  string    `json:"media_url"`
	Permalink string    `json:"permalink"`
	Timestamp string    `json:"timestamp"`
}

// Feed is the result of FetchMedia. Status is StatusOK for live or cached feeds and
// StatusDegraded, with an empty Media list and a reason in Error, otherwise.
type Feed struct {
	Status     feeds.Status    `json:"status"`
	ErrorKind  feeds.ErrorKind `json:"error_kind,omitempty"`
	Error      string          `json:"error,omitempty"`
	ProfileURL string          `json:"profile_url"`
	Media      []Media         `json:"media"`
	Count      int             `json:"count"`
	HasToken   bool            `json:"has_token"`
}

// Profile is the static account description shown next to the feed.
type Profile struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	ProfileURL  string `json:"profile_url"`
}

// mediaResponse is the body of the media listing endpoint. Data is nil when the key is absent.
type mediaResponse struct {
	Data  *[]rawMedia `json:"data"`
	Error *apiError   `json:"error"`
}

type rawMedia struct {
	ID           string `json:"id"`
	Caption      string `json:"caption"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Permalink    string `json:"permalink"`
	Timestamp    string `json:"timestamp"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}
