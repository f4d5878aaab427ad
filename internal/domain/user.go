package domain

import (
	"context"
	"time"
)

type ContextKey string

const (
	UserContextKey    ContextKey = "user"
	SessionContextKey ContextKey = "browsing_session"
)

// User event types recorded in the user log.
const (
	EventRegistration = "registration"
	EventLogin        = "login"
)

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name,omitempty"`
	IsAdmin      bool       `json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
	LoginCount   int        `json:"login_count"`
	PasswordHash string     `json:"-"`

	RegistrationIP        string `json:"registration_ip,omitempty"`
	RegistrationUserAgent string `json:"registration_user_agent,omitempty"`
}

// Visit is one tracked page view.
type Visit struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Page      string    `json:"page"`
	Timestamp time.Time `json:"timestamp"`
	UserID    *string   `json:"user_id"`
}

// UserLog records registrations and logins.
type UserLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

// AdminStats is the aggregate shown in the admin panel.
type AdminStats struct {
	TotalVisits      int64   `json:"total_visits"`
	TotalUsers       int64   `json:"total_users"`
	RegisteredVisits int64   `json:"registered_visits"`
	AnonymousVisits  int64   `json:"anonymous_visits"`
	Users            []User  `json:"users"`
	RecentVisits     []Visit `json:"recent_visits"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

// ClientInfo describes the caller of an auth request.
type ClientInfo struct {
	IP        string
	UserAgent string
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// RecordLogin bumps the login counter and last-login data, returning the new count.
	RecordLogin(ctx context.Context, id string, at time.Time, client ClientInfo) (int, error)
	List(ctx context.Context, limit int) ([]User, error)
	Count(ctx context.Context) (int64, error)
	LogEvent(ctx context.Context, log *UserLog) error
}

type VisitRepository interface {
	Record(ctx context.Context, visit *Visit) error
	Count(ctx context.Context) (int64, error)
	CountRegistered(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]Visit, error)
}

// RegistrationRecord is forwarded to the external record-keeping script.
type RegistrationRecord struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}

// RegistrationMirror receives a copy of every successful registration.
type RegistrationMirror interface {
	Forward(ctx context.Context, rec RegistrationRecord) error
}
