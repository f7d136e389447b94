package usage

import (
	"context"
	"sync"
)

// InMemoryRepository keeps counters in a map
type InMemoryRepository struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewInMemoryRepository creates an in-memory usage repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{counts: make(map[string]int)}
}

func (r *InMemoryRepository) Get(ctx context.Context, ownerID, date string) (int, error) {
	if err := validate(ownerID, date); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[Key(ownerID, date)], nil
}

func (r *InMemoryRepository) Increment(ctx context.Context, ownerID, date string) (int, error) {
	if err := validate(ownerID, date); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	key := Key(ownerID, date)
	r.counts[key]++
	return r.counts[key], nil
}

func (r *InMemoryRepository) IncrementIfBelow(ctx context.Context, ownerID, date string, limit int) (int, bool, error) {
	if err := validate(ownerID, date); err != nil {
		return 0, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	key := Key(ownerID, date)
	if r.counts[key] >= limit {
		return r.counts[key], false, nil
	}
	r.counts[key]++
	return r.counts[key], true, nil
}
