package interaction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Sequencer issues monotonic per-resource sequence numbers. A response is
// applied only while its number is still the latest issued for the resource.
type Sequencer interface {
	Next(ctx context.Context, key string) (uint64, error)
	Latest(ctx context.Context, key string) (uint64, error)
}

// MemorySequencer keeps sequence numbers in process memory.
type MemorySequencer struct {
	mu   sync.Mutex
	seqs map[string]uint64
}

// NewMemorySequencer creates an empty in-memory sequencer.
func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{seqs: make(map[string]uint64)}
}

// Next implements Sequencer.
func (s *MemorySequencer) Next(_ context.Context, key string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqs[key]++
	return s.seqs[key], nil
}

// Latest implements Sequencer.
func (s *MemorySequencer) Latest(_ context.Context, key string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seqs[key], nil
}

// RedisSequencer shares sequence numbers between gateway instances.
type RedisSequencer struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisSequencer creates a sequencer whose keys expire after ttl of
// inactivity.
func NewRedisSequencer(client goredis.UniversalClient, ttl time.Duration) *RedisSequencer {
	return &RedisSequencer{client: client, prefix: "modportal:seq:", ttl: ttl}
}

// Next implements Sequencer.
func (s *RedisSequencer) Next(ctx context.Context, key string) (uint64, error) {
	if s.client == nil {
		return 0, fmt.Errorf("redis client is nil")
	}
	n, err := s.client.Incr(ctx, s.prefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment sequence: %w", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.prefix+key, s.ttl).Err(); err != nil {
			return 0, fmt.Errorf("set sequence ttl: %w", err)
		}
	}
	return uint64(n), nil
}

// Latest implements Sequencer.
func (s *RedisSequencer) Latest(ctx context.Context, key string) (uint64, error) {
	if s.client == nil {
		return 0, fmt.Errorf("redis client is nil")
	}
	n, err := s.client.Get(ctx, s.prefix+key).Uint64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}
	return n, nil
}
