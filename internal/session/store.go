package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces session keys in Redis.
const keyPrefix = "session:"

// Store persists states by session id. Load reports false for unknown or
// expired ids.
type Store interface {
	Load(ctx context.Context, id string) (*State, bool, error)
	Save(ctx context.Context, id string, s *State, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Load(ctx context.Context, id string) (*State, bool, error) {
	payload, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("session get: %w", err)
	}
	s := New()
	if err := json.Unmarshal(payload, s); err != nil {
		return nil, false, fmt.Errorf("session unmarshal: %w", err)
	}
	return s, true, nil
}

func (r *RedisStore) Save(ctx context.Context, id string, s *State, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+id, payload, ttl).Err(); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

type memEntry struct {
	payload []byte
	expires time.Time
}

// MemoryStore keeps sessions in process. Expired entries are dropped on access.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry), now: time.Now}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*State, bool, error) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if ok && !m.now().Before(e.expires) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	s := New()
	if err := json.Unmarshal(e.payload, s); err != nil {
		return nil, false, fmt.Errorf("session unmarshal: %w", err)
	}
	return s, true, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, s *State, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	m.mu.Lock()
	m.entries[id] = memEntry{payload: payload, expires: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}
