package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"Storefront/internal/api/handlers/storefront"
	"Storefront/internal/api/middleware"
)

// RegisterStorefrontRoutes registers the storefront feed endpoints on the router.
//
// JSON endpoints live under /api with CORS for the storefront pages:
//   - GET /api/products?page=&limit=&offset=&shop_id=
//   - GET /api/instagram?limit=
//   - GET /api/home
//   - GET /api/store
//
// Syndication endpoints get a stricter limit since every miss reaches an upstream:
//   - GET /feeds/products.rss
//   - GET /feeds/instagram.atom
func RegisterStorefrontRoutes(r chi.Router, handler *storefront.Handler, allowedOrigins []string) {
	r.Route("/api", func(r chi.Router) {
		r.Use(corsMiddleware(allowedOrigins))
		r.Get("/products", handler.HandleProducts)
		r.Get("/instagram", handler.HandleInstagram)
		r.Get("/home", handler.HandleHome)
		r.Get("/store", handler.HandleStore)
	})

	// Feed readers poll; 30 req/min per IP is plenty
	feedLimiter := middleware.NewRateLimiter(30, 1*time.Minute)
	r.With(feedLimiter.Middleware).Get("/feeds/products.rss", handler.HandleProductsRSS)
	r.With(feedLimiter.Middleware).Get("/feeds/instagram.atom", handler.HandleInstagramAtom)
}

// corsMiddleware creates a read-only CORS middleware for the JSON endpoints
func corsMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	})
}
