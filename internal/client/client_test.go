package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ultimate-kits/internal/domain"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backend(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, 2*time.Second)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLoginAcceptsEitherTokenField(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"access_token", `{"access_token":"tok","token_type":"bearer","user":{"id":"u1","email":"fan@kits.test","is_admin":true}}`},
		{"token", `{"token":"tok","user":{"id":"u1","email":"fan@kits.test","is_admin":true}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := backend(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/auth/login", r.URL.Path)
				var creds Credentials
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				assert.Equal(t, "fan@kits.test", creds.Email)
				_, _ = w.Write([]byte(tt.body))
			})

			auth, err := c.Login(context.Background(), " fan@kits.test ", "pw")
			require.NoError(t, err)
			assert.Equal(t, "tok", auth.Token)
			assert.True(t, auth.User.IsAdmin)
		})
	}
}

func TestRegisterSurfacesDetail(t *testing.T) {
	c := backend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Email already registered"}`))
	})

	_, err := c.Register(context.Background(), Credentials{Email: "fan@kits.test", Password: "pw", Name: "Fan"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Email already registered", err.Error())
}

func TestAuthenticateValidatesInput(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second)
	defer c.Close()
	_, err := c.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStatsSendsBearer(t *testing.T) {
	c := backend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"total_visits":5,"total_users":2,"registered_visits":3,"anonymous_visits":2,"users":[],"recent_visits":[]}`))
	})

	stats, err := c.Stats(context.Background(), "tok")
	require.NoError(t, err)
	assert.EqualValues(t, 5, stats.TotalVisits)
	assert.EqualValues(t, 2, stats.AnonymousVisits)
}

func TestSessionStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := OpenSessionStore(path)
	require.NoError(t, err)
	assert.Nil(t, s.User())

	require.NoError(t, s.Save(&Auth{Token: "tok", User: &domain.User{ID: "u1", Email: "fan@kits.test", IsAdmin: true}}))

	reopened, err := OpenSessionStore(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", reopened.Token())
	assert.Equal(t, "fan@kits.test", reopened.User().Email)
	assert.True(t, reopened.IsAdmin())

	require.NoError(t, reopened.Logout())
	assert.Empty(t, reopened.Token())
	assert.Nil(t, reopened.User())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSessionStoreClearsCorruptFile(t *testing.T) {
	tests := map[string]string{
		"not json":     `{{{`,
		"user garbage": `{"user":"{not-json","token":"tok"}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			s, err := OpenSessionStore(path)
			require.NoError(t, err)
			assert.Nil(t, s.User())
			assert.Empty(t, s.Token())
			_, err = os.Stat(path)
			assert.True(t, os.IsNotExist(err))
		})
	}
}

type statsFunc func(ctx context.Context, token string) (*domain.AdminStats, error)

func (f statsFunc) Stats(ctx context.Context, token string) (*domain.AdminStats, error) {
	return f(ctx, token)
}

func sessionWith(t *testing.T, admin bool) *SessionStore {
	t.Helper()
	s, err := OpenSessionStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	require.NoError(t, s.Save(&Auth{Token: "tok", User: &domain.User{ID: "u1", IsAdmin: admin}}))
	return s
}

func TestAdminPanelHiddenForShoppers(t *testing.T) {
	calls := 0
	panel := NewAdminPanel(statsFunc(func(context.Context, string) (*domain.AdminStats, error) {
		calls++
		return &domain.AdminStats{}, nil
	}), sessionWith(t, false))

	assert.False(t, panel.Visible())
	state := panel.Open(context.Background())
	assert.False(t, state.Open)
	assert.Zero(t, calls)
}

func TestAdminPanelStates(t *testing.T) {
	fail := true
	panel := NewAdminPanel(statsFunc(func(_ context.Context, token string) (*domain.AdminStats, error) {
		assert.Equal(t, "tok", token)
		if fail {
			return nil, &APIError{Status: http.StatusForbidden}
		}
		return &domain.AdminStats{TotalVisits: 9}, nil
	}), sessionWith(t, true))

	require.True(t, panel.Visible())
	state := panel.Open(context.Background())
	assert.True(t, state.Open)
	assert.Equal(t, PanelError, state.Status)
	assert.Contains(t, state.Error, "sin permisos")

	fail = false
	state = panel.Refresh(context.Background())
	assert.Equal(t, PanelReady, state.Status)
	assert.Empty(t, state.Error)
	assert.EqualValues(t, 9, state.Stats.TotalVisits)

	panel.Close()
	assert.Equal(t, PanelIdle, panel.Refresh(context.Background()).Status)
}
