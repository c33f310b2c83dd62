package storefront

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	syndication "github.com/gorilla/feeds"

	"Storefront/internal/api/handlers"
	"Storefront/internal/core/feeds"
	"Storefront/internal/core/social"
)

// mediaTimestampLayout is the timestamp format of the media API ("2024-05-01T10:00:00+0000").
const mediaTimestampLayout = "2006-01-02T15:04:05-0700"

// HandleProductsRSS handles GET /feeds/products.rss
// Placeholder pages are not syndicated; the endpoint answers 503 until live data returns.
func (h *Handler) HandleProductsRSS(w http.ResponseWriter, r *http.Request) {
	page := h.products.FetchProducts(r.Context(), "", syndicationLimit, 0)
	if page.Status != feeds.StatusOK {
		writeUnavailable(w, "products")
		return
	}

	now := h.now()
	feed := &syndication.Feed{
		Title:       h.site.Title + " - Products",
		Description: "Latest products from the " + h.site.Title + " store",
		Link:        &syndication.Link{Href: h.products.StoreURL(), Rel: "alternate", Type: "text/html"},
		Id:          h.site.URL + "/feeds/products.rss",
		Created:     now,
		Updated:     now,
	}

	for _, p := range page.Products {
		id := p.URL
		if id == "" {
			id = fmt.Sprintf("%s/product/%d/%d", h.site.URL, p.ShopID, p.ItemID)
		}
		item := &syndication.Item{
			Title:       p.Name,
			Link:        &syndication.Link{Href: p.URL},
			Id:          id,
			Description: productSummary(p.Price, p.RatingStar, p.HistoricalSold),
			Created:     now,
		}
		if p.Image != "" {
			item.Enclosure = &syndication.Enclosure{Url: p.Image, Type: "image/jpeg", Length: "0"}
		}
		feed.Items = append(feed.Items, item)
	}

	body, err := feed.ToRss()
	if err != nil {
		slog.Error("[STOREFRONT] failed to render products feed", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "failed to render feed")
		return
	}
	writeFeed(w, "application/rss+xml; charset=utf-8", body)
}

// HandleInstagramAtom handles GET /feeds/instagram.atom
func (h *Handler) HandleInstagramAtom(w http.ResponseWriter, r *http.Request) {
	mediaFeed := h.media.FetchMedia(r.Context(), "", galleryMediaLimit)
	if mediaFeed.Status != feeds.StatusOK {
		writeUnavailable(w, "instagram")
		return
	}

	profile := h.media.ProfileInfo()
	now := h.now()
	feed := &syndication.Feed{
		Title:       profile.DisplayName + " on Instagram",
		Description: "Latest posts from @" + profile.Username,
		Link:        &syndication.Link{Href: profile.ProfileURL, Rel: "alternate", Type: "text/html"},
		Author:      &syndication.Author{Name: profile.DisplayName},
		Id:          h.site.URL + "/feeds/instagram.atom",
		Created:     now,
		Updated:     now,
	}

	for _, m := range mediaFeed.Media {
		created, err := time.Parse(mediaTimestampLayout, m.Timestamp)
		if err != nil {
			created = now
		}
		title := social.TruncateCaption(m.Caption, captionPreviewSize)
		if title == "" {
			title = "Instagram post " + m.ID
		}
		feed.Items = append(feed.Items, &syndication.Item{
			Title:   title,
			Link:    &syndication.Link{Href: m.Permalink, Rel: "alternate", Type: "text/html"},
			Id:      m.Permalink + "#" + m.ID,
			Content: mediaContent(m),
			Created: created,
		})
	}

	body, err := feed.ToAtom()
	if err != nil {
		slog.Error("[STOREFRONT] failed to render instagram feed", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "failed to render feed")
		return
	}
	writeFeed(w, "application/atom+xml; charset=utf-8", body)
}

func productSummary(price, rating float64, sold int) string {
	return strings.Join([]string{
		feeds.FormatPrice(price),
		feeds.RatingStars(rating),
		feeds.FormatNumber(sold) + " terjual",
	}, " · ")
}

func mediaContent(m social.Media) string {
	var b strings.Builder
	if m.MediaURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s"><img src="%s" alt=""></a></p>`,
			html.EscapeString(m.Permalink), html.EscapeString(m.MediaURL))
	}
	if m.Caption != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(m.Caption))
	}
	return b.String()
}

func writeFeed(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Warn("[STOREFRONT] failed to write feed response", "error", err)
	}
}

func writeUnavailable(w http.ResponseWriter, source string) {
	w.Header().Set("Retry-After", strconv.Itoa(int(feeds.DefaultCacheTTL.Seconds())))
	handlers.WriteError(w, http.StatusServiceUnavailable, "FeedUnavailable", source+" feed is temporarily unavailable")
}
