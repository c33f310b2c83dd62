package storefront

import (
	"Storefront/internal/core/feeds"
	"Storefront/internal/core/marketplace"
	"Storefront/internal/core/social"
)

// pageHeader carries the outcome of a fetch alongside its items.
type pageHeader struct {
	Status    feeds.Status    `json:"status"`
	ErrorKind feeds.ErrorKind `json:"error_kind,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func newPageHeader(p *marketplace.ProductPage) pageHeader {
	return pageHeader{Status: p.Status, ErrorKind: p.ErrorKind, Error: p.Error}
}

// productView is a Product with its display strings.
type productView struct {
	marketplace.Product
	PriceDisplay  string `json:"price_display"`
	PriceRange    string `json:"price_range,omitempty"`
	RatingDisplay string `json:"rating_display"`
	SoldDisplay   string `json:"sold_display"`
}

func productViews(products []marketplace.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		v := productView{
			Product:       p,
			PriceDisplay:  feeds.FormatPrice(p.Price),
			RatingDisplay: feeds.RatingStars(p.RatingStar),
			SoldDisplay:   feeds.FormatNumber(p.HistoricalSold),
		}
		if p.PriceMin > 0 && p.PriceMax > p.PriceMin {
			v.PriceRange = feeds.FormatPrice(p.PriceMin) + " - " + feeds.FormatPrice(p.PriceMax)
		}
		views = append(views, v)
	}
	return views
}

// mediaView is a Media post with its display strings.
type mediaView struct {
	social.Media
	CaptionPreview string `json:"caption_preview"`
	Icon           string `json:"icon"`
}

func mediaViews(media []social.Media) []mediaView {
	views := make([]mediaView, 0, len(media))
	for _, m := range media {
		views = append(views, mediaView{
			Media:          m,
			CaptionPreview: social.TruncateCaption(m.Caption, captionPreviewSize),
			Icon:           feeds.MediaTypeIcon(string(m.MediaType)),
		})
	}
	return views
}

type productListResponse struct {
	pageHeader
	ShopID      string        `json:"shop_id,omitempty"`
	Products    []productView `json:"products"`
	Total       int           `json:"total"`
	HasMore     bool          `json:"has_more"`
	Page        int           `json:"page"`
	TotalPages  int           `json:"total_pages"`
	HasPrevious bool          `json:"has_previous"`
	HasNext     bool          `json:"has_next"`
	StoreURL    string        `json:"store_url"`
}

type mediaFeedResponse struct {
	Status     feeds.Status    `json:"status"`
	ErrorKind  feeds.ErrorKind `json:"error_kind,omitempty"`
	Error      string          `json:"error,omitempty"`
	Media      []mediaView     `json:"media"`
	Count      int             `json:"count"`
	HasToken   bool            `json:"has_token"`
	ProfileURL string          `json:"profile_url"`
	Profile    social.Profile  `json:"profile"`
}

func newMediaFeedResponse(f *social.Feed, profile social.Profile) mediaFeedResponse {
	return mediaFeedResponse{
		Status:     f.Status,
		ErrorKind:  f.ErrorKind,
		Error:      f.Error,
		Media:      mediaViews(f.Media),
		Count:      len(f.Media),
		HasToken:   f.HasToken,
		ProfileURL: f.ProfileURL,
		Profile:    profile,
	}
}

type homeResponse struct {
	Products     []productView     `json:"products"`
	ProductFeed  pageHeader        `json:"product_feed"`
	Instagram    mediaFeedResponse `json:"instagram"`
	StoreURL     string            `json:"store_url"`
	ProfileURL   string            `json:"profile_url"`
	HasProducts  bool              `json:"has_products"`
	HasInstagram bool              `json:"has_instagram"`
}

type storeResponse struct {
	StoreURL   string         `json:"store_url"`
	ProfileURL string         `json:"profile_url"`
	Instagram  social.Profile `json:"instagram"`
}
