package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"wecamp-service/internal/domain/user"
	xerrors "wecamp-service/internal/pkg/errors"
)

type memUsers struct {
	mu   sync.Mutex
	rows map[string]*user.User
}

func newMemUsers() *memUsers { return &memUsers{rows: map[string]*user.User{}} }

func (m *memUsers) Create(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if strings.EqualFold(existing.Email, u.Email) {
			return xerrors.ErrConflict
		}
	}
	u.CreatedAt = time.Now()
	cp := *u
	m.rows[u.ID] = &cp
	return nil
}

func (m *memUsers) Update(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.rows[u.ID]
	if !ok {
		return xerrors.ErrNotFound
	}
	cp := *u
	cp.Password = existing.Password
	m.rows[u.ID] = &cp
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.rows[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, xerrors.ErrNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, addr string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if strings.EqualFold(u.Email, addr) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (m *memUsers) List(_ context.Context, _ user.ListFilter) ([]*user.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*user.User, 0, len(m.rows))
	for _, u := range m.rows {
		cp := *u
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}
