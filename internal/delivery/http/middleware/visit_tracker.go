package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"ultimate-kits/internal/domain"
	"ultimate-kits/pkg/logger"
	"ultimate-kits/pkg/utils"

	"github.com/google/uuid"
)

const (
	VisitCookie    = "session_id"
	visitCookieAge = 30 * 24 * time.Hour
	visitTimeout   = 5 * time.Second
)

// untrackedPaths are served outside /api but are not page views.
var untrackedPaths = map[string]bool{
	"/health":      true,
	"/favicon.ico": true,
}

func isPageView(r *http.Request) bool {
	path := r.URL.Path
	return r.Method == http.MethodGet && !untrackedPaths[path] && path != "/api" && !strings.HasPrefix(path, "/api/")
}

// NewVisitTracker records page views: GET requests outside /api, probes excluded.
// Recording happens after the response and its failures are only logged.
func NewVisitTracker(visits domain.VisitRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if visits == nil || !isPageView(r) {
				next.ServeHTTP(w, r)
				return
			}

			sessionID := ""
			if c, err := r.Cookie(VisitCookie); err == nil && c.Value != "" {
				sessionID = c.Value
			} else {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     VisitCookie,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(visitCookieAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r)

			visit := &domain.Visit{
				ID:        uuid.NewString(),
				SessionID: sessionID,
				Page:      r.URL.Path,
				Timestamp: time.Now().UTC(),
			}
			if claims, err := utils.ExtractClaims(r); err == nil && claims.UserID() != "" {
				uid := claims.UserID()
				visit.UserID = &uid
			}

			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), visitTimeout)
			defer cancel()
			if err := visits.Record(ctx, visit); err != nil {
				logger.WithContext(ctx).Warn().Err(err).Str("page", visit.Page).Msg("Failed to record visit")
			}
		})
	}
}
