package marketplace

import "Storefront/internal/core/feeds"

// placeholderProducts are shown when the marketplace cannot be reached. They link to the
// store page rather than to individual listings.
var placeholderProducts = []Product{
	{
		Name:       "Dress Model Manis Premium",
		Price:      150000,
		PriceMin:   150000,
		PriceMax:   150000,
		RatingStar: 4.8,
		Stock:      10,
		Sold:       120,
	},
	{
		Name:       "Blouse Casual Model Manis",
		Price:      95000,
		PriceMin:   95000,
		PriceMax:   95000,
		RatingStar: 4.7,
		Stock:      15,
		Sold:       85,
	},
	{
		Name:       "Rok Plisket Model Manis",
		Price:      120000,
		PriceMin:   110000,
		PriceMax:   130000,
		RatingStar: 4.9,
		Stock:      8,
		Sold:       64,
	},
}

// fallbackPage tiles the placeholder list to exactly limit entries.
func fallbackPage(cfg Config, shopID string, limit int, kind feeds.ErrorKind) *ProductPage {
	products := make([]Product, limit)
	for i := range products {
		p := placeholderProducts[i%len(placeholderProducts)]
		p.Images = []string{}
		p.URL = cfg.StoreURL
		products[i] = p
	}

	return &ProductPage{
		Status:    feeds.StatusFallback,
		ErrorKind: kind,
		Error:     FallbackError,
		ShopID:    shopID,
		Products:  products,
		Total:     len(products),
		HasMore:   false,
	}
}
