package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"ultimate-kits/internal/domain"
	"ultimate-kits/pkg/logger"
	"ultimate-kits/pkg/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
)

const (
	mirrorTimeout   = 15 * time.Second
	mirrorSource    = "web_app"
	tokenTypeBearer = "bearer"
)

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthUsecase struct {
	userRepo          domain.UserRepository
	mirror            domain.RegistrationMirror
	adminEmails       []string
	accessTokenExpiry time.Duration
	bcryptCost        int
	now               func() time.Time
	// async runs best-effort side work; tests replace it to run inline.
	async func(func())
}

func NewAuthUsecase(userRepo domain.UserRepository, mirror domain.RegistrationMirror, adminEmails []string, atExpiry time.Duration) *AuthUsecase {
	return &AuthUsecase{
		userRepo:          userRepo,
		mirror:            mirror,
		adminEmails:       adminEmails,
		accessTokenExpiry: atExpiry,
		bcryptCost:        bcrypt.DefaultCost,
		now:               time.Now,
		async:             func(f func()) { go f() },
	}
}

// Register creates an account, logs the registration event and issues an access token.
// The registration is then mirrored to the record-keeping script without waiting for it.
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput, client domain.ClientInfo) (*domain.AuthResponse, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	existing, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := u.now().UTC()
	user := &domain.User{
		ID:                    uuid.NewString(),
		Email:                 email,
		Name:                  strings.TrimSpace(in.Name),
		IsAdmin:               lo.Contains(u.adminEmails, email),
		CreatedAt:             now,
		PasswordHash:          string(hash),
		RegistrationIP:        client.IP,
		RegistrationUserAgent: client.UserAgent,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	u.logEvent(ctx, user.ID, domain.EventRegistration, now, client)

	resp, err := u.issue(user)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info().Str("user_id", user.ID).Bool("is_admin", user.IsAdmin).Msg("User registered")
	u.forwardRegistration(ctx, domain.RegistrationRecord{
		Name:      user.Name,
		Email:     email,
		Password:  in.Password,
		Timestamp: now.Format(time.RFC3339),
		Source:    mirrorSource,
	})
	return resp, nil
}

// Login verifies credentials, bumps the login counters and issues an access token.
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput, client domain.ClientInfo) (*domain.AuthResponse, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && user == nil) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := u.now().UTC()
	count, err := u.userRepo.RecordLogin(ctx, user.ID, now, client)
	if err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	user.LastLogin = &now
	user.LoginCount = count
	u.logEvent(ctx, user.ID, domain.EventLogin, now, client)

	return u.issue(user)
}

// Me returns the account behind a validated token subject.
func (u *AuthUsecase) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (u *AuthUsecase) issue(user *domain.User) (*domain.AuthResponse, error) {
	token, err := utils.GenerateJWT(user.ID, user.Email, user.IsAdmin, u.accessTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.AuthResponse{AccessToken: token, TokenType: tokenTypeBearer, User: user}, nil
}

// logEvent records an auth event. Failures are logged and never fail the request.
func (u *AuthUsecase) logEvent(ctx context.Context, userID, event string, at time.Time, client domain.ClientInfo) {
	err := u.userRepo.LogEvent(ctx, &domain.UserLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventType: event,
		Timestamp: at,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	})
	if err != nil {
		logger.WithContext(ctx).Warn().Err(err).Str("event", event).Msg("Failed to write user log")
	}
}

func (u *AuthUsecase) forwardRegistration(ctx context.Context, rec domain.RegistrationRecord) {
	if u.mirror == nil {
		return
	}
	log := logger.WithContext(ctx)
	bg := context.WithoutCancel(ctx)
	u.async(func() {
		mctx, cancel := context.WithTimeout(bg, mirrorTimeout)
		defer cancel()
		if err := u.mirror.Forward(mctx, rec); err != nil {
			log.Warn().Err(err).Str("email", rec.Email).Msg("Registration mirror failed")
			return
		}
		log.Debug().Str("email", rec.Email).Msg("Registration mirrored")
	})
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	return email, nil
}
