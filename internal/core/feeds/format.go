package feeds

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rivo/uniseg"
)

// Indonesian grouping: "." between thousands, no decimal places.
const groupedNoDecimals = "#.###,"

// FormatPrice renders an amount as Rupiah, e.g. 150000 -> "Rp 150.000".
func FormatPrice(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return "Rp 0"
	}
	return "Rp " + humanize.FormatFloat(groupedNoDecimals, price)
}

// FormatNumber renders a count with thousands separators, e.g. 1234 -> "1.234".
func FormatNumber(n int) string {
	return humanize.FormatInteger(groupedNoDecimals, n)
}

// RatingStars renders a 0-5 rating as stars followed by the value, e.g. "★★★★☆ (4.5)".
func RatingStars(rating float64) string {
	if math.IsNaN(rating) {
		rating = 0
	}
	rating = math.Max(0, math.Min(5, rating))

	full := int(rating)
	half := 0
	if rating-float64(full) >= 0.5 {
		half = 1
	}
	empty := 5 - full - half

	stars := strings.Repeat("★", full) + strings.Repeat("☆", half+empty)
	return fmt.Sprintf("%s (%.1f)", stars, rating)
}

// MediaTypeIcon returns the icon class for a social media type.
func MediaTypeIcon(mediaType string) string {
	switch mediaType {
	case "VIDEO":
		return "lni lni-video"
	case "CAROUSEL_ALBUM":
		return "lni lni-gallery"
	default:
		return "lni lni-image"
	}
}

// TruncateText shortens text to at most maxGraphemes user-perceived characters, cutting
// back to the last space and appending "...". Text that already fits is returned as is.
func TruncateText(text string, maxGraphemes int) string {
	if text == "" {
		return ""
	}
	if maxGraphemes < 0 {
		maxGraphemes = 0
	}
	if uniseg.GraphemeClusterCount(text) <= maxGraphemes {
		return text
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(text)
	for i := 0; i < maxGraphemes && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	prefix := b.String()
	if idx := strings.LastIndex(prefix, " "); idx >= 0 {
		prefix = prefix[:idx]
	}
	return prefix + "..."
}
