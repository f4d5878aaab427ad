package pgxrepo

import (
	"context"
	"fmt"

	"ultimate-kits/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type visitRepository struct {
	db *pgxpool.Pool
}

func NewVisitRepository(db *pgxpool.Pool) domain.VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) Record(ctx context.Context, v *domain.Visit) error {
	_, err := r.db.Exec(ctx, `INSERT INTO visits (id, session_id, page, timestamp, user_id)
		VALUES ($1, $2, $3, $4, $5)`, v.ID, v.SessionID, v.Page, v.Timestamp, v.UserID)
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}
	return nil
}

func (r *visitRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM visits`).Scan(&n)
	return n, err
}

func (r *visitRepository) CountRegistered(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM visits WHERE user_id IS NOT NULL`).Scan(&n)
	return n, err
}

func (r *visitRepository) Recent(ctx context.Context, limit int) ([]domain.Visit, error) {
	rows, err := r.db.Query(ctx, `SELECT id, session_id, page, timestamp, user_id
		FROM visits ORDER BY timestamp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	visits, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Visit, error) {
		var v domain.Visit
		err := row.Scan(&v.ID, &v.SessionID, &v.Page, &v.Timestamp, &v.UserID)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("recent visits: %w", err)
	}
	return visits, nil
}
