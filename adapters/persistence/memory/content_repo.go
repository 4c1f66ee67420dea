package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/internal/domain/content"
	"github.com/khoahotran/devconnect/pkg/apperror"
)

type memoryContentRepo struct {
	kind  content.Kind
	mu    sync.RWMutex
	store map[uuid.UUID]content.Item
}

// NewMemoryContentRepo returns the repository of one content kind.
func NewMemoryContentRepo(kind content.Kind) content.Repository {
	return &memoryContentRepo{kind: kind, store: make(map[uuid.UUID]content.Item)}
}

func cloneItem(it content.Item) content.Item {
	it.Likes = slices.Clone(it.Likes)
	it.Comments = slices.Clone(it.Comments)
	return it
}

func (r *memoryContentRepo) Kind() content.Kind {
	return r.kind
}

func (r *memoryContentRepo) Save(_ context.Context, it *content.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[it.ID]; exists {
		return apperror.NewConflict(r.kind.Label(), "id", it.ID.String())
	}
	it.Version = 1
	r.store[it.ID] = cloneItem(*it)
	return nil
}

func (r *memoryContentRepo) Update(_ context.Context, it *content.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[it.ID]
	if !ok {
		return r.kind.NotFound()
	}
	if stored.Version != it.Version {
		return apperror.ErrModifiedConcurrently
	}
	it.Version++
	r.store[it.ID] = cloneItem(*it)
	return nil
}

func (r *memoryContentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return r.kind.NotFound()
	}
	delete(r.store, id)
	return nil
}

func (r *memoryContentRepo) FindByID(_ context.Context, id uuid.UUID) (*content.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.store[id]
	if !ok {
		return nil, content.ErrItemNotFound
	}
	out := cloneItem(it)
	return &out, nil
}

func (r *memoryContentRepo) List(_ context.Context) ([]*content.Item, error) {
	r.mu.RLock()
	out := make([]*content.Item, 0, len(r.store))
	for _, it := range r.store {
		cp := cloneItem(it)
		out = append(out, &cp)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryContentRepo) DeleteByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, it := range r.store {
		if it.UserID == userID {
			delete(r.store, id)
			n++
		}
	}
	return n, nil
}
