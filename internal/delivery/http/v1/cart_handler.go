package v1

import (
	"net/http"

	"ultimate-kits/internal/domain"
	"ultimate-kits/internal/usecase"
	"ultimate-kits/pkg/utils"
)

type CartHandler struct {
	cartUC *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{cartUC: uc}
}

type addToCartReq struct {
	ProductID string `json:"productId"`
	domain.Customization
}

type updateQuantityReq struct {
	Delta int `json:"delta"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.cartUC.View(sess))
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	var req addToCartReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProductID == "" {
		utils.WriteError(w, http.StatusBadRequest, "productId is required")
		return
	}

	item, err := h.cartUC.Add(r.Context(), sess, usecase.AddToCartInput{
		ProductID:     req.ProductID,
		Customization: req.Customization,
		Fetch:         fetchOptions(r),
	})
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"item": item,
		"cart": h.cartUC.View(sess),
	})
}

// PATCH /api/v1/cart/{itemId} with {"delta": 1} or {"delta": -1}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	var req updateQuantityReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	view, err := h.cartUC.UpdateQuantity(sess, r.PathValue("itemId"), req.Delta)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	view, err := h.cartUC.Remove(sess, r.PathValue("itemId"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

// Checkout returns the WhatsApp hand-off link. The cart is left as it is.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	checkout, err := h.cartUC.Checkout(r.Context(), sess)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, checkout)
}
