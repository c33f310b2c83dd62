package social

import "Storefront/internal/core/feeds"

// DefaultCaptionLength is the caption length shown on gallery cards.
const DefaultCaptionLength = 100

// TruncateCaption shortens caption to maxLen characters, cutting back to the last word
// boundary and appending "...". A non-positive maxLen uses DefaultCaptionLength.
func TruncateCaption(caption string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultCaptionLength
	}
	return feeds.TruncateText(caption, maxLen)
}
