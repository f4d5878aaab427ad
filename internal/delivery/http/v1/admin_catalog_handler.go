package v1

import (
	"net/http"
	"time"

	"ultimate-kits/internal/usecase"
	"ultimate-kits/pkg/cache"
	"ultimate-kits/pkg/logger"
	"ultimate-kits/pkg/utils"
)

type AdminCatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
	imageUC   *usecase.ImageUsecase
	cache     cache.CacheService
}

func NewAdminCatalogHandler(catalogUC *usecase.CatalogUsecase, imageUC *usecase.ImageUsecase, cache cache.CacheService) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalogUC: catalogUC, imageUC: imageUC, cache: cache}
}

type catalogStatus struct {
	Loaded     bool      `json:"loaded"`
	Generation uint64    `json:"generation"`
	Products   int       `json:"products"`
	LoadedAt   time.Time `json:"loadedAt"`
	Source     string    `json:"source,omitempty"`

	// CachedItems counts everything in the shared cache: snapshots, sessions, images and stats.
	CachedItems int `json:"cachedItems"`
}

func (h *AdminCatalogHandler) Status(w http.ResponseWriter, r *http.Request) {
	generation, products, loadedAt, loaded := h.catalogUC.Status()
	utils.WriteJSON(w, http.StatusOK, catalogStatus{
		Loaded:      loaded,
		Generation:  generation,
		Products:    products,
		LoadedAt:    loadedAt,
		CachedItems: h.cache.ItemCount(),
	})
}

// POST /api/v1/admin/catalog/reload drops the cached snapshot and fetches the feed again.
func (h *AdminCatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	snap := h.catalogUC.Reload(r.Context(), fetchOptions(r))
	logger.WithContext(r.Context()).Info().
		Uint64("generation", snap.Generation).
		Int("products", len(snap.Products)).
		Msg("Catalog reloaded by admin")

	utils.WriteJSON(w, http.StatusOK, catalogStatus{
		Loaded:      true,
		Generation:  snap.Generation,
		Products:    len(snap.Products),
		LoadedAt:    snap.LoadedAt,
		Source:      snap.Source,
		CachedItems: h.cache.ItemCount(),
	})
}

// DELETE /api/v1/admin/images/{fileId}?size=w1000
func (h *AdminCatalogHandler) PurgeImage(w http.ResponseWriter, r *http.Request) {
	if err := h.imageUC.Purge(r.Context(), r.PathValue("fileId"), r.URL.Query().Get("size")); err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
