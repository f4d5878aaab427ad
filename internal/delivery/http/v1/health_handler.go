package v1

import (
	"context"
	"net/http"
	"time"

	"ultimate-kits/pkg/utils"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

// NewHealthHandler accepts a nil db when the service runs without Postgres.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "db": "disabled"}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status["status"], status["db"] = "degraded", "unreachable"
			utils.WriteJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["db"] = "connected"
	}
	utils.WriteJSON(w, http.StatusOK, status)
}

// Root mirrors the API banner at /api/.
func Root(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Ultimate Kits API"})
}

// Unavailable answers for features whose backing service is not configured.
func Unavailable(feature string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusServiceUnavailable, feature+" is not configured")
	}
}
