package v1

import (
	"net/http"

	"ultimate-kits/internal/delivery/http/middleware"
)

// Handlers groups everything the router mounts. Auth and AdminStats are nil when the
// service runs without a database; their routes then answer 503.
type Handlers struct {
	Catalog      *CatalogHandler
	Cart         *CartHandler
	Products     *ProductsHandler
	Assistant    *AssistantHandler
	Auth         *AuthHandler
	AdminStats   *AdminStatsHandler
	AdminCatalog *AdminCatalogHandler
	Health       *HealthHandler
}

// RegisterRoutes mounts the storefront and backend API on mux. sessions wraps the
// routes that need a browsing session.
func RegisterRoutes(mux *http.ServeMux, h Handlers, sessions func(http.Handler) http.Handler) {
	withSession := func(fn http.HandlerFunc) http.Handler {
		return sessions(fn)
	}
	adminOnly := func(fn http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminMiddleware(fn))
	}

	// Storefront
	mux.Handle("GET /api/v1/catalog", withSession(h.Catalog.Browse))
	mux.HandleFunc("GET /api/v1/catalog/top-sellers", h.Catalog.TopSellers)
	mux.HandleFunc("GET /api/v1/products/{id}", h.Catalog.GetProduct)
	mux.Handle("GET /api/v1/products/{id}/image", withSession(h.Catalog.CurrentImage))
	mux.Handle("POST /api/v1/products/{id}/image/failed", withSession(h.Catalog.ImageFailed))

	// Cart
	mux.Handle("GET /api/v1/cart", withSession(h.Cart.GetCart))
	mux.Handle("POST /api/v1/cart", withSession(h.Cart.AddToCart))
	mux.Handle("PATCH /api/v1/cart/{itemId}", withSession(h.Cart.UpdateQuantity))
	mux.Handle("DELETE /api/v1/cart/{itemId}", withSession(h.Cart.RemoveItem))
	mux.Handle("POST /api/v1/cart/checkout", withSession(h.Cart.Checkout))

	mux.HandleFunc("POST /api/v1/assistant", h.Assistant.Ask)

	// Feed and image proxy
	mux.HandleFunc("GET /api/products", h.Products.ListProducts)
	mux.HandleFunc("GET /api/products/image/{fileId}", h.Products.GetImage)

	// Auth
	if h.Auth != nil {
		mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
		mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
		mux.Handle("GET /api/auth/me", middleware.AuthMiddleware(http.HandlerFunc(h.Auth.Me)))
	} else {
		mux.HandleFunc("/api/auth/", Unavailable("Authentication"))
	}

	// Admin
	if h.AdminStats != nil {
		mux.Handle("GET /api/admin/stats", adminOnly(h.AdminStats.GetStats))
	} else {
		mux.Handle("GET /api/admin/stats", adminOnly(Unavailable("Statistics")))
	}
	mux.Handle("GET /api/v1/admin/catalog", adminOnly(h.AdminCatalog.Status))
	mux.Handle("POST /api/v1/admin/catalog/reload", adminOnly(h.AdminCatalog.Reload))
	mux.Handle("DELETE /api/v1/admin/images/{fileId}", adminOnly(h.AdminCatalog.PurgeImage))

	// Health
	mux.HandleFunc("GET /api/{$}", Root)
	mux.HandleFunc("GET /api/v1/health", h.Health.Health)
	mux.HandleFunc("GET /health", h.Health.Health)
}
