package v1

import (
	"net/http"

	"ultimate-kits/internal/usecase"
	"ultimate-kits/pkg/utils"
)

type AssistantHandler struct {
	assistantUC *usecase.AssistantUsecase
}

func NewAssistantHandler(uc *usecase.AssistantUsecase) *AssistantHandler {
	return &AssistantHandler{assistantUC: uc}
}

type askReq struct {
	Prompt string `json:"prompt"`
}

// POST /api/v1/assistant
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	answer, err := h.assistantUC.Ask(r.Context(), req.Prompt)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, answer)
}
