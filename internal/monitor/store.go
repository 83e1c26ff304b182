package monitor

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// SeenStore remembers which postings were already announced, so a
// restart does not re-notify the whole backlog.
type SeenStore interface {
	Seen(ctx context.Context, postingNumber string) (bool, error)
	Mark(ctx context.Context, postingNumber string) error
	Count(ctx context.Context) (int64, error)
}

type memoryStore struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewMemoryStore keeps seen postings in process memory.
func NewMemoryStore() SeenStore {
	return &memoryStore{seen: make(map[string]struct{})}
}

func (s *memoryStore) Seen(_ context.Context, postingNumber string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[postingNumber]
	return ok, nil
}

func (s *memoryStore) Mark(_ context.Context, postingNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[postingNumber] = struct{}{}
	return nil
}

func (s *memoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.seen)), nil
}

const redisSeenKey = "fbs:seen_postings"

type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore persists seen postings in a Redis set.
func NewRedisStore(rdb *redis.Client) SeenStore {
	return &redisStore{rdb: rdb}
}

func (s *redisStore) Seen(ctx context.Context, postingNumber string) (bool, error) {
	return s.rdb.SIsMember(ctx, redisSeenKey, postingNumber).Result()
}

func (s *redisStore) Mark(ctx context.Context, postingNumber string) error {
	return s.rdb.SAdd(ctx, redisSeenKey, postingNumber).Err()
}

func (s *redisStore) Count(ctx context.Context) (int64, error) {
	return s.rdb.SCard(ctx, redisSeenKey).Result()
}
