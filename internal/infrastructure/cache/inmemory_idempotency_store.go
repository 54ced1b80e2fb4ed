package cache

import (
	"context"
	"sync"
	"time"

	"github.com/adbook/backend/internal/domain/shared"
)

const sweepInterval = 5 * time.Minute

// InMemoryIdempotencyStore keeps claims in process memory. A second API
// instance would not see them, so it backs single-node deployments, the
// Redis fallback and tests.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	done    chan struct{}
	swept   sync.WaitGroup
	once    sync.Once
}

// NewInMemoryIdempotencyStore starts a sweeper that drops expired claims
// until Close is called.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		expires: make(map[string]time.Time),
		done:    make(chan struct{}),
	}
	s.swept.Add(1)
	go s.sweep()
	return s
}

func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if until, ok := s.expires[key]; ok && now.Before(until) {
		return false, nil
	}
	s.expires[key] = now.Add(ttl)
	return true, nil
}

func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.expires, key)
	s.mu.Unlock()
	return nil
}

func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	until, ok := s.expires[key]
	s.mu.Unlock()
	return ok && time.Now().Before(until), nil
}

// Close stops the sweeper; later calls are no-ops
func (s *InMemoryIdempotencyStore) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.swept.Wait()
	})
	return nil
}

// Size counts held claims, expired ones included until the next sweep
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expires)
}

func (s *InMemoryIdempotencyStore) sweep() {
	defer s.swept.Done()
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.dropExpired(now)
		}
	}
}

func (s *InMemoryIdempotencyStore) dropExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, until := range s.expires {
		if !now.Before(until) {
			delete(s.expires, key)
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
