package v1

import (
	"net/http"

	"ultimate-kits/internal/delivery/http/middleware"
	"ultimate-kits/internal/usecase"
	"ultimate-kits/pkg/logger"
	"ultimate-kits/pkg/utils"
)

type AuthHandler struct {
	authUC *usecase.AuthUsecase
}

func NewAuthHandler(authUC *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUC: authUC}
}

// POST /api/auth/register. A client-supplied is_admin is ignored.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req usecase.RegisterInput
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.authUC.Register(r.Context(), req, clientInfo(r))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	logger.WithContext(r.Context()).Info().Str("user_id", resp.User.ID).Msg("User registered")
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req usecase.LoginInput
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.authUC.Login(r.Context(), req, clientInfo(r))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.authUC.Me(r.Context(), caller.ID)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}
