// Package lock provides per-key advisory locks used to keep at most one
// itinerary sync in flight per trip.
//
// Locks fail fast: Acquire never waits for a holder to finish. A second
// caller gets an error wrapping domain.ErrConflict and is expected to retry
// later (or, for a duplicate form submission, simply drop the request).
package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/tripplanner/internal/domain"
)

// Release frees a lock obtained from Acquire.
type Release func(ctx context.Context) error

// Local is an in-process lock table. It is used when no Redis URL is
// configured, which is only correct for a single API instance.
type Local struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocal returns an empty in-process lock table.
func NewLocal() *Local {
	return &Local{held: make(map[string]struct{})}
}

// Acquire takes the lock for key or returns domain.ErrConflict if it is held.
func (l *Local) Acquire(_ context.Context, key string) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok {
		return nil, fmt.Errorf("lock.Local.Acquire: %s: %w", key, domain.ErrConflict)
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
		return nil
	}, nil
}
