package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"ultimate-kits/internal/domain"
)

type PanelStatus int

const (
	PanelIdle PanelStatus = iota
	PanelLoading
	PanelError
	PanelReady
)

func (s PanelStatus) String() string {
	switch s {
	case PanelLoading:
		return "loading"
	case PanelError:
		return "error"
	case PanelReady:
		return "ready"
	}
	return "idle"
}

// PanelState is a snapshot of the admin panel.
type PanelState struct {
	Open      bool
	Status    PanelStatus
	Error     string
	Stats     *domain.AdminStats
	FetchedAt time.Time
}

// StatsSource is implemented by Client.
type StatsSource interface {
	Stats(ctx context.Context, token string) (*domain.AdminStats, error)
}

// AdminPanel is the read-only statistics view offered to admin users.
type AdminPanel struct {
	source  StatsSource
	session *SessionStore
	now     func() time.Time

	mu    sync.Mutex
	state PanelState
}

func NewAdminPanel(source StatsSource, session *SessionStore) *AdminPanel {
	return &AdminPanel{source: source, session: session, now: time.Now}
}

// Visible reports whether the stored user may see the panel at all.
func (p *AdminPanel) Visible() bool {
	return p.session.IsAdmin()
}

// Open shows the panel and loads the statistics. It does nothing for non-admin users.
func (p *AdminPanel) Open(ctx context.Context) PanelState {
	if !p.Visible() {
		return p.State()
	}
	p.mu.Lock()
	p.state.Open = true
	p.mu.Unlock()
	return p.Refresh(ctx)
}

func (p *AdminPanel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = PanelState{}
}

// Refresh reloads the statistics. Failures, including rejected tokens, end up in the
// panel's error message and are not returned.
func (p *AdminPanel) Refresh(ctx context.Context) PanelState {
	p.mu.Lock()
	if !p.state.Open {
		defer p.mu.Unlock()
		return p.state
	}
	p.state.Status, p.state.Error = PanelLoading, ""
	p.mu.Unlock()

	stats, err := p.source.Stats(ctx, p.session.Token())

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state.Status = PanelError
		p.state.Error = panelMessage(err)
		return p.state
	}
	p.state.Status = PanelReady
	p.state.Stats = stats
	p.state.FetchedAt = p.now()
	return p.state
}

func (p *AdminPanel) State() PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func panelMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Unauthorized() && apiErr.Detail == "" {
			return "Sesión expirada o sin permisos de administrador"
		}
		return apiErr.Error()
	}
	return "Error cargando estadísticas: " + err.Error()
}
