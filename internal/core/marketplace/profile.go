package marketplace

import (
	"net/http"
	"strings"
)

// shopIDPlaceholder is substituted into RequestProfile.Referer.
const shopIDPlaceholder = "{shop_id}"

// RequestProfile is the header set presented to the marketplace. The upstream rejects
// requests that do not look like they come from a browser, so the values mirror a
// desktop Chrome session.
type RequestProfile struct {
	// Extra holds the client-hint and fetch-metadata headers.
	Extra map[string]string

	UserAgent      string
	Accept         string
	AcceptLanguage string
	Origin         string

	// Referer may contain "{shop_id}", replaced per request.
	Referer string
}

// DefaultRequestProfile returns the desktop Chrome profile.
// Accept-Encoding is left to net/http so compressed bodies are decoded transparently.
func DefaultRequestProfile() RequestProfile {
	return RequestProfile{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Accept:         "application/json, text/plain, */*",
		AcceptLanguage: "id-ID,id;q=0.9,en-US;q=0.8,en;q=0.7",
		Origin:         "https://shopee.co.id",
		Referer:        "https://shopee.co.id/shop/" + shopIDPlaceholder + "/",
		Extra: map[string]string{
			"sec-ch-ua":          `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`,
			"sec-ch-ua-mobile":   "?0",
			"sec-ch-ua-platform": `"Windows"`,
			"sec-fetch-dest":     "empty",
			"sec-fetch-mode":     "cors",
			"sec-fetch-site":     "same-origin",
		},
	}
}

// Apply sets the profile headers on h for a request concerning shopID.
func (p RequestProfile) Apply(h http.Header, shopID string) {
	setIfNotEmpty(h, "User-Agent", p.UserAgent)
	setIfNotEmpty(h, "Accept", p.Accept)
	setIfNotEmpty(h, "Accept-Language", p.AcceptLanguage)
	setIfNotEmpty(h, "Origin", p.Origin)
	setIfNotEmpty(h, "Referer", strings.ReplaceAll(p.Referer, shopIDPlaceholder, shopID))
	for k, v := range p.Extra {
		setIfNotEmpty(h, k, v)
	}
}

func setIfNotEmpty(h http.Header, key, value string) {
	if value != "" {
		h.Set(key, value)
	}
}
