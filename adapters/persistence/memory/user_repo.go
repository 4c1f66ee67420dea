// Package memory holds process-local repositories for development and tests.
// Documents are copied on the way in and out, so callers never share state
// with the store.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/internal/domain/user"
)

type memoryUserRepo struct {
	mu    sync.RWMutex
	store map[uuid.UUID]user.User
}

func NewMemoryUserRepo() user.Repository {
	return &memoryUserRepo{store: make(map[uuid.UUID]user.User)}
}

func (r *memoryUserRepo) Save(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.store {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.ErrEmailTaken
		}
	}
	r.store[u.ID] = *u
	return nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.store[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memoryUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.store, id)
	return nil
}
