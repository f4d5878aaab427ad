// Package client talks to the storefront backend on behalf of a signed-in shopper:
// credentials in, token and user out, plus the admin statistics view.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ultimate-kits/internal/domain"

	"github.com/goccy/go-json"
	"resty.dev/v3"
)

var ErrNoToken = errors.New("token missing from auth response")

// APIError is a non-2xx answer from the backend. Detail carries its {"detail"} message.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return e.Detail
}

// Unauthorized reports whether the backend rejected the caller's credentials or role.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// Credentials is the body of a login or registration request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Auth is what a successful login or registration yields.
type Auth struct {
	Token string
	User  *domain.User
}

// authResponse accepts both token field names the backend has used.
type authResponse struct {
	AccessToken string       `json:"access_token"`
	Token       string       `json:"token"`
	User        *domain.User `json:"user"`
}

type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) Login(ctx context.Context, email, password string) (*Auth, error) {
	return c.authenticate(ctx, "/api/auth/login", Credentials{Email: email, Password: password})
}

func (c *Client) Register(ctx context.Context, creds Credentials) (*Auth, error) {
	return c.authenticate(ctx, "/api/auth/register", creds)
}

func (c *Client) authenticate(ctx context.Context, path string, creds Credentials) (*Auth, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	var out authResponse
	if err := c.post(ctx, path, "", creds, &out); err != nil {
		return nil, err
	}
	token := out.AccessToken
	if token == "" {
		token = out.Token
	}
	if token == "" {
		return nil, ErrNoToken
	}
	return &Auth{Token: token, User: out.User}, nil
}

// Stats fetches the admin dashboard aggregate with the given bearer token.
func (c *Client) Stats(ctx context.Context, token string) (*domain.AdminStats, error) {
	var out domain.AdminStats
	if err := c.get(ctx, "/api/admin/stats", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path, token string, body, out interface{}) error {
	req := c.request(ctx, token).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	resp, err := req.Post(path)
	return decodeResponse(resp, err, out)
}

func (c *Client) get(ctx context.Context, path, token string, out interface{}) error {
	resp, err := c.request(ctx, token).Get(path)
	return decodeResponse(resp, err, out)
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func decodeResponse(resp *resty.Response, err error, out interface{}) error {
	if err != nil {
		return fmt.Errorf("request backend: %w", err)
	}
	body := []byte(resp.String())
	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode()}
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &detail) == nil {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}
