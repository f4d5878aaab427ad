package usecase

import (
	"context"
	"fmt"
	"time"

	"ultimate-kits/internal/domain"
	"ultimate-kits/pkg/cache"

	"golang.org/x/sync/errgroup"
)

const (
	statsCacheKey    = "stats:admin"
	statsCacheTTL    = 10 * time.Second
	statsUserLimit   = 1000
	statsRecentLimit = 50
)

// StatsUsecase aggregates visit and user data for the admin panel.
type StatsUsecase struct {
	users  domain.UserRepository
	visits domain.VisitRepository
	cache  cache.CacheService
}

func NewStatsUsecase(users domain.UserRepository, visits domain.VisitRepository, cache cache.CacheService) *StatsUsecase {
	return &StatsUsecase{users: users, visits: visits, cache: cache}
}

// AdminStats runs the independent counts and listings concurrently.
func (uc *StatsUsecase) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	if val, found := uc.cache.Get(statsCacheKey); found {
		if stats, ok := val.(*domain.AdminStats); ok {
			return stats, nil
		}
	}

	stats := &domain.AdminStats{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalVisits, err = uc.visits.Count(gctx)
		return wrap("count visits", err)
	})
	g.Go(func() (err error) {
		stats.RegisteredVisits, err = uc.visits.CountRegistered(gctx)
		return wrap("count registered visits", err)
	})
	g.Go(func() (err error) {
		stats.TotalUsers, err = uc.users.Count(gctx)
		return wrap("count users", err)
	})
	g.Go(func() (err error) {
		stats.Users, err = uc.users.List(gctx, statsUserLimit)
		return wrap("list users", err)
	})
	g.Go(func() (err error) {
		stats.RecentVisits, err = uc.visits.Recent(gctx, statsRecentLimit)
		return wrap("recent visits", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.AnonymousVisits = stats.TotalVisits - stats.RegisteredVisits
	if stats.Users == nil {
		stats.Users = []domain.User{}
	}
	if stats.RecentVisits == nil {
		stats.RecentVisits = []domain.Visit{}
	}

	uc.cache.Set(statsCacheKey, stats, statsCacheTTL)
	return stats, nil
}

// Invalidate drops cached stats so the next read is fresh.
func (uc *StatsUsecase) Invalidate() {
	uc.cache.Delete(statsCacheKey)
}

func wrap(op string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
