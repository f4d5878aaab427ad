package middleware

import (
	"net/http"
	"strings"

	"ultimate-kits/config"

	"github.com/samber/lo"
)

const (
	corsMethods = "GET, POST, PATCH, DELETE, OPTIONS"
	corsHeaders = "Content-Type, Authorization, X-Request-ID"
	// Read by the storefront to tell proxied images from mirrored ones.
	corsExposed = "X-Request-ID, X-Image-Source"
)

// NewCORSMiddleware allows the comma-separated ALLOWED_ORIGIN list. Browsing sessions
// ride on a cookie, so credentials are always allowed and "*" echoes the caller's origin.
func NewCORSMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	origins := lo.FilterMap(strings.Split(cfg.AllowedOrigin, ","), func(o string, _ int) (string, bool) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		return o, o != ""
	})
	anyOrigin := lo.Contains(origins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (anyOrigin || lo.Contains(origins, origin)) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Expose-Headers", corsExposed)
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", corsMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsHeaders)
				w.Header().Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
