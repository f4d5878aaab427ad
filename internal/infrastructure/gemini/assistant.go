package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Assistant answers questions with a Gemini model in thinking mode.
type Assistant struct {
	client *genai.Client
	model  string
	budget int32
}

func NewAssistant(ctx context.Context, apiKey, model string, thinkingBudget int32) (*Assistant, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Assistant{client: client, model: model, budget: thinkingBudget}, nil
}

func (a *Assistant) Model() string { return a.model }

func (a *Assistant) Answer(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if a.budget != 0 {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(a.budget)}
	}
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
