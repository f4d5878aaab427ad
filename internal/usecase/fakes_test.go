package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"ultimate-kits/internal/domain"
)

type memUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	logs   []domain.UserLog
	logErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) RecordLogin(_ context.Context, id string, at time.Time, _ domain.ClientInfo) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	u.LoginCount++
	u.LastLogin = &at
	return u.LoginCount, nil
}

func (r *memUserRepo) List(_ context.Context, limit int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *memUserRepo) LogEvent(_ context.Context, l *domain.UserLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.logErr != nil {
		return r.logErr
	}
	r.logs = append(r.logs, *l)
	return nil
}

type memVisitRepo struct {
	mu     sync.Mutex
	visits []domain.Visit
	err    error
}

func (r *memVisitRepo) Record(_ context.Context, v *domain.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visits = append(r.visits, *v)
	return nil
}

func (r *memVisitRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.visits)), nil
}

func (r *memVisitRepo) CountRegistered(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, v := range r.visits {
		if v.UserID != nil {
			n++
		}
	}
	return n, nil
}

func (r *memVisitRepo) Recent(_ context.Context, limit int) ([]domain.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]domain.Visit(nil), r.visits...)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingMirror struct {
	mu      sync.Mutex
	records []domain.RegistrationRecord
	err     error
}

func (m *recordingMirror) Forward(_ context.Context, rec domain.RegistrationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return m.err
}

var errBoom = errors.New("boom")
