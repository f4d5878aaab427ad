package domain

import "context"

// AnswerModel produces a free-text answer to a shopper's question.
type AnswerModel interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

type AssistantAnswer struct {
	Answer string `json:"answer"`
	Model  string `json:"model,omitempty"`
}
