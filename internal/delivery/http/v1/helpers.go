package v1

import (
	"errors"
	"net/http"

	"ultimate-kits/internal/delivery/http/middleware"
	"ultimate-kits/internal/domain"
	"ultimate-kits/internal/usecase"
	"ultimate-kits/pkg/logger"
	"ultimate-kits/pkg/utils"
)

// writeUsecaseError maps domain errors to status codes. Anything unrecognized is a 500
// whose cause is logged but not shown to the caller.
func writeUsecaseError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSizeRequired), errors.Is(err, domain.ErrInvalidSize):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		utils.WriteError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrEmptyCart):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		utils.WriteError(w, http.StatusUnauthorized, "Email o contraseña incorrectos")
	case errors.Is(err, domain.ErrForbidden):
		utils.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrCartItemNotFound),
		errors.Is(err, domain.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrImageNotFound):
		utils.WriteError(w, http.StatusNotFound, "No se pudo obtener la imagen de Drive")
	case errors.Is(err, domain.ErrUnavailable):
		utils.WriteError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrFeedExhausted), errors.Is(err, domain.ErrMalformedFeed):
		logger.WithContext(r.Context()).Error().Err(err).Msg("Upstream feed failed")
		utils.WriteError(w, http.StatusBadGateway, "Error obteniendo productos")
	default:
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled error")
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// fetchOptions picks the feed timeout profile from the caller's user agent.
func fetchOptions(r *http.Request) domain.FetchOptions {
	return domain.FetchOptions{Mobile: utils.IsMobileUserAgent(r.UserAgent())}
}

func clientInfo(r *http.Request) domain.ClientInfo {
	return domain.ClientInfo{IP: middleware.ClientIP(r), UserAgent: r.UserAgent()}
}

// session returns the browsing session or writes a 500 when the middleware is missing.
func session(w http.ResponseWriter, r *http.Request) (*usecase.BrowsingSession, bool) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		logger.WithContext(r.Context()).Error().Msg("Browsing session middleware not installed")
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
	return sess, ok
}

func queryInt(r *http.Request, key string, fallback int) int {
	return utils.ParseInt(r.URL.Query().Get(key), fallback)
}

// requestBaseURL is the scheme and host the caller used to reach this server.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
