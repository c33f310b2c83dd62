// Package storefront provides the HTTP handlers that expose the mirrored marketplace
// listings and social posts to the storefront pages.
package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"Storefront/internal/api/handlers"
	"Storefront/internal/core/marketplace"
	"Storefront/internal/core/social"
)

// Page sizes used by the storefront pages.
const (
	homeProductLimit   = 12
	homeProductsShown  = 8
	homeMediaLimit     = 6
	productListLimit   = 50
	galleryMediaLimit  = 24
	syndicationLimit   = 50
	captionPreviewSize = social.DefaultCaptionLength
)

// maxPage keeps (page-1)*limit far from overflow.
const maxPage = 10000

// ProductFetcher is the part of marketplace.Service the handlers use.
type ProductFetcher interface {
	FetchProducts(ctx context.Context, shopID string, limit, offset int) *marketplace.ProductPage
	StoreURL() string
}

// MediaFetcher is the part of social.Service the handlers use.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, accessToken string, limit int) *social.Feed
	ProfileInfo() social.Profile
}

// SiteInfo describes the storefront for syndication feeds.
type SiteInfo struct {
	Title string
	URL   string
}

// Handler serves the storefront feed endpoints.
type Handler struct {
	products ProductFetcher
	media    MediaFetcher
	site     SiteInfo
	now      func() time.Time
}

// NewHandler creates a new storefront handler.
func NewHandler(products ProductFetcher, media MediaFetcher, site SiteInfo) *Handler {
	return &Handler{
		products: products,
		media:    media,
		site:     site,
		now:      time.Now,
	}
}

// HandleProducts handles GET /api/products?page=&limit=&offset=&shop_id=
// offset wins over page when both are given.
func (h *Handler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := intParam(q, "limit", productListLimit)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	if limit == 0 || limit > marketplace.MaxLimit {
		limit = marketplace.MaxLimit
	}

	page, err := intParam(q, "page", 1)
	if err != nil || page < 1 || page > maxPage {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest",
			"page must be an integer between 1 and "+strconv.Itoa(maxPage))
		return
	}

	offset := (page - 1) * limit
	if q.Has("offset") {
		if offset, err = intParam(q, "offset", 0); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
			return
		}
		page = offset/limit + 1
	}

	shopID := q.Get("shop_id")
	if shopID != "" && !isNumeric(shopID) {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "shop_id must be numeric")
		return
	}

	result := h.products.FetchProducts(r.Context(), shopID, limit, offset)

	totalPages := 1
	if result.Total > 0 {
		totalPages = (result.Total + limit - 1) / limit
	}

	handlers.WriteJSON(w, http.StatusOK, productListResponse{
		pageHeader:  newPageHeader(result),
		ShopID:      result.ShopID,
		Products:    productViews(result.Products),
		Total:       result.Total,
		HasMore:     result.HasMore,
		Page:        page,
		TotalPages:  totalPages,
		HasPrevious: page > 1,
		HasNext:     result.HasMore && page < totalPages,
		StoreURL:    h.products.StoreURL(),
	})
}

// HandleInstagram handles GET /api/instagram?limit=
func (h *Handler) HandleInstagram(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit", galleryMediaLimit)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	feed := h.media.FetchMedia(r.Context(), "", limit)

	handlers.WriteJSON(w, http.StatusOK, newMediaFeedResponse(feed, h.media.ProfileInfo()))
}

// HandleHome handles GET /api/home
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	page := h.products.FetchProducts(r.Context(), "", homeProductLimit, 0)
	feed := h.media.FetchMedia(r.Context(), "", homeMediaLimit)

	products := page.Products
	if len(products) > homeProductsShown {
		products = products[:homeProductsShown]
	}

	handlers.WriteJSON(w, http.StatusOK, homeResponse{
		Products:     productViews(products),
		ProductFeed:  newPageHeader(page),
		Instagram:    newMediaFeedResponse(feed, h.media.ProfileInfo()),
		StoreURL:     h.products.StoreURL(),
		ProfileURL:   feed.ProfileURL,
		HasProducts:  len(products) > 0,
		HasInstagram: len(feed.Media) > 0,
	})
}

// HandleStore handles GET /api/store
func (h *Handler) HandleStore(w http.ResponseWriter, r *http.Request) {
	profile := h.media.ProfileInfo()
	handlers.WriteJSON(w, http.StatusOK, storeResponse{
		StoreURL:   h.products.StoreURL(),
		ProfileURL: profile.ProfileURL,
		Instagram:  profile,
	})
}

// intParam parses a non-negative integer query parameter, returning def when absent.
func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, &paramError{name: name}
	}
	return n, nil
}

type paramError struct {
	name string
}

func (e *paramError) Error() string {
	return e.name + " must be a non-negative integer"
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
