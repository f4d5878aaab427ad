package v1

import (
	"net/http"
	"strconv"

	"ultimate-kits/internal/usecase"
	"ultimate-kits/pkg/utils"
)

// ProductsHandler serves the raw feed proxy and the Drive image proxy.
type ProductsHandler struct {
	proxyUC *usecase.ProductsProxyUsecase
	imageUC *usecase.ImageUsecase
	baseURL string
}

// NewProductsHandler takes the public base URL used in rewritten image links. When it is
// empty the request's own host is used.
func NewProductsHandler(proxyUC *usecase.ProductsProxyUsecase, imageUC *usecase.ImageUsecase, baseURL string) *ProductsHandler {
	return &ProductsHandler{proxyUC: proxyUC, imageUC: imageUC, baseURL: baseURL}
}

// GET /api/products
func (h *ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	base := h.baseURL
	if base == "" {
		base = requestBaseURL(r)
	}
	items, err := h.proxyUC.Products(r.Context(), base)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

// GET /api/products/image/{fileId}?size=w1000
func (h *ProductsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	blob, err := h.imageUC.Get(r.Context(), r.PathValue("fileId"), r.URL.Query().Get("size"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Image-Source", blob.Source)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob.Data)
}
