package v1

import (
	"net/http"

	"ultimate-kits/internal/usecase"
	"ultimate-kits/pkg/utils"
)

type AdminStatsHandler struct {
	statsUC *usecase.StatsUsecase
}

func NewAdminStatsHandler(uc *usecase.StatsUsecase) *AdminStatsHandler {
	return &AdminStatsHandler{statsUC: uc}
}

// GET /api/admin/stats
func (h *AdminStatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsUC.AdminStats(r.Context())
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}
