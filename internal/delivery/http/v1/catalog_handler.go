package v1

import (
	"net/http"
	"strings"

	"ultimate-kits/internal/domain"
	"ultimate-kits/internal/usecase"
	"ultimate-kits/pkg/utils"
)

type CatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUC: uc}
}

// GET /api/v1/catalog?q=&team=&league=&version=&edition=&page=
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()

	page := h.catalogUC.Browse(r.Context(), sess, usecase.BrowseRequest{
		Query: strings.TrimSpace(query.Get("q")),
		Filters: domain.FilterState{
			Team:    strings.TrimSpace(query.Get("team")),
			League:  strings.TrimSpace(query.Get("league")),
			Version: strings.TrimSpace(query.Get("version")),
			Edition: strings.TrimSpace(query.Get("edition")),
		},
		Page:  queryInt(r, "page", 0),
		Fetch: fetchOptions(r),
	})
	utils.WriteJSON(w, http.StatusOK, page)
}

func (h *CatalogHandler) TopSellers(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.catalogUC.TopSellers(r.Context(), fetchOptions(r)))
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogUC.Product(r.Context(), r.PathValue("id"), fetchOptions(r))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

type imageResponse struct {
	URL         string `json:"url"`
	Unavailable bool   `json:"unavailable"`
}

// GET /api/v1/products/{id}/image
func (h *CatalogHandler) CurrentImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	url, available, err := h.catalogUC.ProductImage(r.Context(), sess, r.PathValue("id"), fetchOptions(r))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, imageResponse{URL: url, Unavailable: !available})
}

// POST /api/v1/products/{id}/image/failed reports that the current image did not load.
func (h *CatalogHandler) ImageFailed(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	url, available, err := h.catalogUC.ImageFailed(r.Context(), sess, r.PathValue("id"), fetchOptions(r))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, imageResponse{URL: url, Unavailable: !available})
}
