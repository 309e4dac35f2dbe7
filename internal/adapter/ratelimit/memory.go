package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type entry struct {
	Count   int
	ResetAt time.Time
}

// MemoryStore keeps counters in process memory. Counters are not shared
// between replicas.
type MemoryStore struct {
	cache *cache.Cache
	mutex sync.Mutex
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(5*time.Minute, 10*time.Minute),
		now:   time.Now,
	}
}

func (s *MemoryStore) Hit(ctx context.Context, key string, window time.Duration) (Result, error) {
	now := s.now()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if cached, found := s.cache.Get(key); found {
		current := cached.(entry)

		if now.Before(current.ResetAt) {
			current.Count++
			s.cache.Set(key, current, current.ResetAt.Sub(now))

			return Result{Count: current.Count, ResetAt: current.ResetAt}, nil
		}
	}

	current := entry{Count: 1, ResetAt: now.Add(window)}
	s.cache.Set(key, current, window)

	return Result{Count: current.Count, ResetAt: current.ResetAt}, nil
}

// Size reports the number of live counters.
func (s *MemoryStore) Size() int {
	return s.cache.ItemCount()
}
