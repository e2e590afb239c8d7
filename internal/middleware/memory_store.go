package middleware

import (
	"context"
	"sync"
	"time"
)

type windowCount struct {
	requests  int
	resetTime time.Time
}

// MemoryStore keeps fixed-window counters in a map and sweeps expired ones periodically.
type MemoryStore struct {
	limits map[string]*windowCount
	mu     sync.Mutex

	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryStore(cleanupEvery time.Duration) *MemoryStore {
	s := &MemoryStore{
		limits: make(map[string]*windowCount),
		now:    time.Now,
		stop:   make(chan struct{}),
	}

	go s.cleanup(cleanupEvery)

	return s
}

func (s *MemoryStore) Take(_ context.Context, key string, max int, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	limit, exists := s.limits[key]
	if !exists || now.After(limit.resetTime) {
		s.limits[key] = &windowCount{requests: 1, resetTime: now.Add(window)}
		return max > 0, nil
	}
	if limit.requests >= max {
		return false, nil
	}
	limit.requests++
	return true, nil
}

func (s *MemoryStore) Remaining(_ context.Context, key string, max int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := s.limits[key]
	if limit == nil || s.now().After(limit.resetTime) {
		return max, nil
	}
	if left := max - limit.requests; left > 0 {
		return left, nil
	}
	return 0, nil
}

func (s *MemoryStore) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.limits = make(map[string]*windowCount)
	return nil
}

// Close ends the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := s.now()
			for key, limit := range s.limits {
				if now.After(limit.resetTime) {
					delete(s.limits, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
