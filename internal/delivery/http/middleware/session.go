package middleware

import (
	"context"
	"net/http"
	"time"

	"ultimate-kits/internal/domain"
	"ultimate-kits/internal/usecase"
	"ultimate-kits/pkg/logger"

	"github.com/google/uuid"
)

const SessionCookie = "kits_session"

// NewSessionMiddleware attaches the visitor's browsing session, issuing the cookie
// on first contact.
func NewSessionMiddleware(store *usecase.SessionStore, ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(SessionCookie); err == nil && uuid.Validate(c.Value) == nil {
				id = c.Value
			}
			if id == "" {
				id = uuid.NewString()
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			sess := store.Get(id)
			sessLogger := logger.WithSessionID(*logger.WithContext(r.Context()), id)
			ctx := logger.NewContext(r.Context(), &sessLogger)
			ctx = context.WithValue(ctx, domain.SessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the browsing session attached by the session middleware.
func SessionFromContext(ctx context.Context) (*usecase.BrowsingSession, bool) {
	sess, ok := ctx.Value(domain.SessionContextKey).(*usecase.BrowsingSession)
	return sess, ok && sess != nil
}
