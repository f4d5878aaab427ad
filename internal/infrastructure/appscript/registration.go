package appscript

import (
	"context"
	"fmt"
	"time"

	"ultimate-kits/internal/domain"

	"github.com/goccy/go-json"
	"resty.dev/v3"
)

// RegistrationMirror posts new registrations to a Google Apps Script web app.
type RegistrationMirror struct {
	url    string
	client *resty.Client
}

func NewRegistrationMirror(url string, timeout time.Duration) *RegistrationMirror {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond)
	return &RegistrationMirror{url: url, client: client}
}

// Forward sends rec as a JSON document. Apps Script reads it from the raw post body,
// so it goes out as text/plain the way a browser form post would.
func (m *RegistrationMirror) Forward(ctx context.Context, rec domain.RegistrationRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode registration: %w", err)
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain;charset=utf-8").
		SetHeader("Cache-Control", "no-cache").
		SetBody(body).
		Post(m.url)
	if err != nil {
		return fmt.Errorf("post registration: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("post registration: %s", resp.Status())
	}
	return nil
}

// Close releases the underlying HTTP client.
func (m *RegistrationMirror) Close() error {
	return m.client.Close()
}
