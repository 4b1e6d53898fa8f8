package transmit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterStore hands out one token bucket per key. The delivery client keys
// by patient, the status servers by remote address. A nil store allows everything.
type RateLimiterStore struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	perKey  rate.Limit
	burst   int
}

// NewRateLimiterStore treats a non-positive rate as unlimited.
func NewRateLimiterStore(perSecond float64, burst int) *RateLimiterStore {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &RateLimiterStore{
		buckets: make(map[string]*rate.Limiter),
		perKey:  limit,
		burst:   max(burst, 1),
	}
}

func (s *RateLimiterStore) GetLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.buckets[key]; ok {
		return b
	}
	b := rate.NewLimiter(s.perKey, s.burst)
	s.buckets[key] = b
	return b
}

// Allow reports whether key may proceed now, consuming a token if so.
func (s *RateLimiterStore) Allow(key string) bool {
	if s == nil {
		return true
	}
	return s.GetLimiter(key).Allow()
}

// Wait blocks until key may proceed or ctx is done.
func (s *RateLimiterStore) Wait(ctx context.Context, key string) error {
	if s == nil {
		return nil
	}
	return s.GetLimiter(key).Wait(ctx)
}

func (s *RateLimiterStore) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}
