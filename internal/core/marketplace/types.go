package marketplace

import "Storefront/internal/core/feeds"

// FallbackError is the error tag carried by every placeholder page.
const FallbackError = "api_blocked"

// Product is a normalized marketplace listing.
// Prices are in Rupiah; every URL field is absolute or empty.
type Product struct {
	Name           string   `json:"name"`
	Image          string   `json:"image"`
	URL            string   `json:"url"`
	Images         []string `json:"images"`
	ItemID         int64    `json:"itemid"`
	ShopID         int64    `json:"shopid"`
	Price          float64  `json:"price"`
	PriceMin       float64  `json:"price_min"`
	PriceMax       float64  `json:"price_max"`
	RatingStar     float64  `json:"rating_star"`
	Stock          int      `json:"stock"`
	Sold           int      `json:"sold"`
	HistoricalSold int      `json:"historical_sold"`
	LikedCount     int      `json:"liked_count"`
}

// ProductPage is the result of FetchProducts. Status is StatusOK for live or cached
// pages and StatusFallback for placeholder pages, which also set Error to FallbackError.
type ProductPage struct {
	Status    feeds.Status    `json:"status"`
	ErrorKind feeds.ErrorKind `json:"error_kind,omitempty"`
	Error     string          `json:"error,omitempty"`
	ShopID    string          `json:"shop_id,omitempty"`
	Products  []Product       `json:"products"`
	Total     int             `json:"total"`
	HasMore   bool            `json:"has_more"`
}

// shopDetailResponse is the body of the shop-detail endpoint.
type shopDetailResponse struct {
	Data  *shopDetail `json:"data"`
	Error *int        `json:"error"`
}

type shopDetail struct {
	ShopID int64 `json:"shopid"`
}

// searchResponse is the body of the search endpoint (or the relay in front of it).
type searchResponse struct {
	TotalCount *int         `json:"total_count"`
	Error      errorCode    `json:"error"`
	ErrorMsg   string       `json:"error_msg"`
	Items      []searchItem `json:"items"`
}

type searchItem struct {
	ItemBasic itemBasic `json:"item_basic"`
}

// itemBasic carries the raw listing fields. Prices are integers scaled by priceScale.
type itemBasic struct {
	Name           string     `json:"name"`
	Image          string     `json:"image"`
	Images         []string   `json:"images"`
	ItemRating     itemRating `json:"item_rating"`
	ItemID         int64      `json:"itemid"`
	ShopID         int64      `json:"shopid"`
	Price          int64      `json:"price"`
	PriceMin       int64      `json:"price_min"`
	PriceMax       int64      `json:"price_max"`
	Stock          int        `json:"stock"`
	Sold           int        `json:"sold"`
	HistoricalSold int        `json:"historical_sold"`
	LikedCount     int        `json:"liked_count"`
}

type itemRating struct {
	RatingStar float64 `json:"rating_star"`
}
