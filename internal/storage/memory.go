package storage

import (
	"context"
	"sync"

	"myfinance/internal/core"
)

// MemoryRepository keeps the snapshot in process memory. It is the
// default backend and the one tests wire in.
type MemoryRepository struct {
	mu    sync.Mutex
	state core.State
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{state: core.DefaultState()}
}

func (r *MemoryRepository) Load(context.Context) (core.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone(), nil
}

func (r *MemoryRepository) Save(_ context.Context, s core.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s.Clone()
	return nil
}
