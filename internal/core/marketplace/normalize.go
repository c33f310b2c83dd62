package marketplace

import (
	"math"
	"strconv"

	"Storefront/internal/core/feeds"
)

// priceScale is the fixed-point factor of raw marketplace prices.
const priceScale = 100000

// normalizePage maps a search response onto a ProductPage. shopID is the id the search
// was issued for; it fills in items that omit their own shop id.
func normalizePage(resp *searchResponse, cfg Config, shopID string, limit int) *ProductPage {
	fallbackShop, _ := strconv.ParseInt(shopID, 10, 64)

	products := make([]Product, 0, len(resp.Items))
	for _, item := range resp.Items {
		products = append(products, normalizeItem(item.ItemBasic, cfg, fallbackShop))
	}

	total := len(products)
	if resp.TotalCount != nil {
		total = *resp.TotalCount
	}

	return &ProductPage{
		Status:   feeds.StatusOK,
		ShopID:   shopID,
		Products: products,
		Total:    total,
		HasMore:  len(resp.Items) >= limit,
	}
}

func normalizeItem(raw itemBasic, cfg Config, fallbackShop int64) Product {
	shop := raw.ShopID
	if shop == 0 {
		shop = fallbackShop
	}

	p := Product{
		ItemID:         raw.ItemID,
		ShopID:         shop,
		Name:           raw.Name,
		Price:          scalePrice(raw.Price),
		PriceMin:       scalePrice(raw.PriceMin),
		PriceMax:       scalePrice(raw.PriceMax),
		Images:         make([]string, 0, len(raw.Images)),
		Stock:          raw.Stock,
		Sold:           raw.Sold,
		HistoricalSold: raw.HistoricalSold,
		LikedCount:     raw.LikedCount,
		RatingStar:     clampRating(raw.ItemRating.RatingStar),
	}

	if raw.Image != "" {
		p.Image, _ = BuildImageURL(cfg.ImageCDNURL, raw.Image)
	}
	for _, id := range raw.Images {
		if u, err := BuildImageURL(cfg.ImageCDNURL, id); err == nil {
			p.Images = append(p.Images, u)
		}
	}
	if shop != 0 && raw.ItemID != 0 {
		p.URL, _ = BuildProductURL(cfg.WebURL,
			strconv.FormatInt(shop, 10), strconv.FormatInt(raw.ItemID, 10), raw.Name)
	}

	return p
}

func scalePrice(raw int64) float64 {
	if raw <= 0 {
		return 0
	}
	return float64(raw) / priceScale
}

func clampRating(r float64) float64 {
	switch {
	case math.IsNaN(r) || r < 0:
		return 0
	case r > 5:
		return 5
	default:
		return r
	}
}
