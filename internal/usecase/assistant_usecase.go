package usecase

import (
	"context"
	"fmt"
	"strings"

	"ultimate-kits/internal/domain"
	"ultimate-kits/pkg/logger"
)

const maxPromptLength = 4000

// AssistantUsecase relays shopper questions to a language model.
type AssistantUsecase struct {
	model     domain.AnswerModel
	modelName string
}

// NewAssistantUsecase accepts a nil model; every question is then refused as unavailable.
func NewAssistantUsecase(model domain.AnswerModel, modelName string) *AssistantUsecase {
	return &AssistantUsecase{model: model, modelName: modelName}
}

// Ask returns the model's answer. Provider failures become a readable answer
// rather than an error so the shopper always sees something.
func (uc *AssistantUsecase) Ask(ctx context.Context, prompt string) (*domain.AssistantAnswer, error) {
	if uc.model == nil {
		return nil, fmt.Errorf("%w: assistant is not configured", domain.ErrUnavailable)
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrValidation)
	}
	if len(prompt) > maxPromptLength {
		return nil, fmt.Errorf("%w: prompt is too long", domain.ErrValidation)
	}

	answer, err := uc.model.Answer(ctx, prompt)
	if err != nil {
		logger.WithContext(ctx).Error().Err(err).Msg("Assistant model call failed")
		answer = "An error occurred while contacting the AI assistant: " + err.Error()
	}
	return &domain.AssistantAnswer{Answer: answer, Model: uc.modelName}, nil
}
