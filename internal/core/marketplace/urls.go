package marketplace

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildImageURL returns the CDN URL for an image id.
func BuildImageURL(cdnBase, imageID string) (string, error) {
	imageID = strings.TrimSpace(imageID)
	if imageID == "" {
		return "", fmt.Errorf("%w: image id", ErrEmptyID)
	}
	if strings.ContainsAny(imageID, "/?#") {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, imageID)
	}
	return strings.TrimRight(cdnBase, "/") + "/" + url.PathEscape(imageID), nil
}

// BuildProductURL returns the canonical product page URL. When name is non-empty a
// slug (lowercased, spaces replaced with hyphens) is attached as the name parameter.
func BuildProductURL(baseURL, shopID, itemID, name string) (string, error) {
	if shopID == "" {
		return "", fmt.Errorf("%w: shop id", ErrEmptyID)
	}
	if itemID == "" {
		return "", fmt.Errorf("%w: item id", ErrEmptyID)
	}

	u := fmt.Sprintf("%s/product/%s/%s",
		strings.TrimRight(baseURL, "/"), url.PathEscape(shopID), url.PathEscape(itemID))
	if name == "" {
		return u, nil
	}
	return u + "?name=" + url.QueryEscape(Slugify(name)), nil
}

// Slugify lowercases name and replaces spaces with hyphens.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
