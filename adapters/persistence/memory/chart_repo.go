package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/internal/domain/chart"
)

type memoryChartRepo struct {
	mu    sync.RWMutex
	store map[uuid.UUID]chart.Chart
}

func NewMemoryChartRepo() chart.Repository {
	return &memoryChartRepo{store: make(map[uuid.UUID]chart.Chart)}
}

func (r *memoryChartRepo) Save(_ context.Context, c *chart.Chart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[c.ID] = *c
	return nil
}

func (r *memoryChartRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*chart.Chart, error) {
	r.mu.RLock()
	out := make([]*chart.Chart, 0)
	for _, c := range r.store {
		if c.UserID == userID {
			cp := c
			out = append(out, &cp)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryChartRepo) DeleteByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, c := range r.store {
		if c.UserID == userID {
			delete(r.store, id)
			n++
		}
	}
	return n, nil
}
