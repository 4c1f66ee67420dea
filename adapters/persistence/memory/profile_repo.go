package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/pkg/apperror"
)

type memoryProfileRepo struct {
	mu    sync.RWMutex
	store map[uuid.UUID]profile.Profile // keyed by owning user
}

func NewMemoryProfileRepo() profile.Repository {
	return &memoryProfileRepo{store: make(map[uuid.UUID]profile.Profile)}
}

func cloneProfile(p profile.Profile) profile.Profile {
	p.Skills = slices.Clone(p.Skills)
	p.Experience = slices.Clone(p.Experience)
	p.Education = slices.Clone(p.Education)
	p.Extra = maps.Clone(p.Extra)
	return p
}

func (r *memoryProfileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.store[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	out := cloneProfile(p)
	return &out, nil
}

func (r *memoryProfileRepo) List(_ context.Context) ([]*profile.Profile, error) {
	r.mu.RLock()
	out := make([]*profile.Profile, 0, len(r.store))
	for _, p := range r.store {
		cp := cloneProfile(p)
		out = append(out, &cp)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryProfileRepo) Save(_ context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// two first submissions raced; the loser gets a conflict
	if _, exists := r.store[p.UserID]; exists {
		return apperror.ErrModifiedConcurrently
	}
	p.Version = 1
	r.store[p.UserID] = cloneProfile(*p)
	return nil
}

func (r *memoryProfileRepo) Update(_ context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[p.UserID]
	if !ok {
		return profile.ErrProfileNotFound
	}
	if stored.Version != p.Version {
		return apperror.ErrModifiedConcurrently
	}
	p.Version++
	r.store[p.UserID] = cloneProfile(*p)
	return nil
}

func (r *memoryProfileRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[userID]; !ok {
		return profile.ErrProfileNotFound
	}
	delete(r.store, userID)
	return nil
}
