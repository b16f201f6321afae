package revision

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryTracker is used when no redis is configured. It is only correct for a
// single server process.
type MemoryTracker struct {
	mu   sync.Mutex
	revs map[uuid.UUID]int64
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{revs: make(map[uuid.UUID]int64)}
}

func (t *MemoryTracker) Bump(_ context.Context, roomID uuid.UUID) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revs[roomID]++
	return t.revs[roomID], nil
}

func (t *MemoryTracker) Current(_ context.Context, roomID uuid.UUID) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.revs[roomID], nil
}

func (t *MemoryTracker) Forget(_ context.Context, roomID uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.revs, roomID)
	return nil
}
