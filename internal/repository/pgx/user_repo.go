package pgxrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ultimate-kits/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, name, password_hash, is_admin, created_at, last_login, login_count, registration_ip, registration_user_agent`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt,
		&u.LastLogin, &u.LoginCount, &u.RegistrationIP, &u.RegistrationUserAgent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.Exec(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.IsAdmin, u.CreatedAt,
		u.LastLogin, u.LoginCount, u.RegistrationIP, u.RegistrationUserAgent)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) RecordLogin(ctx context.Context, id string, at time.Time, client domain.ClientInfo) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `UPDATE users
		SET login_count = login_count + 1, last_login = $2, last_login_ip = $3, last_login_user_agent = $4
		WHERE id = $1
		RETURNING login_count`, id, at, client.IP, client.UserAgent).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("record login: %w", err)
	}
	return count, nil
}

func (r *userRepository) List(ctx context.Context, limit int) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *userRepository) LogEvent(ctx context.Context, l *domain.UserLog) error {
	_, err := r.db.Exec(ctx, `INSERT INTO user_logs (id, user_id, event_type, timestamp, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.UserID, l.EventType, l.Timestamp, l.IPAddress, l.UserAgent)
	if err != nil {
		return fmt.Errorf("insert user log: %w", err)
	}
	return nil
}
