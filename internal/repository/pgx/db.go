package pgxrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ultimate-kits/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPgxPool creates a new pgx connection pool
func NewPgxPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.DBMaxConns
	poolConfig.MinConns = cfg.DBMinConns
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.ConnConfig.Tracer = queryTracer{now: time.Now}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		last_login TIMESTAMPTZ,
		login_count INTEGER NOT NULL DEFAULT 0,
		registration_ip TEXT NOT NULL DEFAULT '',
		registration_user_agent TEXT NOT NULL DEFAULT '',
		last_login_ip TEXT NOT NULL DEFAULT '',
		last_login_user_agent TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS users_created_at_idx ON users (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS visits (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		page TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL,
		user_id TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS visits_timestamp_idx ON visits (timestamp DESC)`,
	`CREATE TABLE IF NOT EXISTS user_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL,
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT ''
	)`,
}

// Migrate creates the tables this service needs. It is safe to run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
