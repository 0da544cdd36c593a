package persistence

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// SlotStore is a key-value store holding one JSON document per key.
type SlotStore interface {
	// Load returns the stored value; ok is false when the key has never been written.
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	Save(ctx context.Context, key string, value []byte) error
}

// MemorySlots keeps slots in process memory. Used for tests and the default development backend.
type MemorySlots struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemorySlots creates an empty in-memory slot store.
func NewMemorySlots() *MemorySlots {
	return &MemorySlots{slots: make(map[string][]byte)}
}

func (m *MemorySlots) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (m *MemorySlots) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = append([]byte(nil), value...)
	return nil
}

// Keys lists the keys written so far.
func (m *MemorySlots) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.slots))
	for key := range m.slots {
		keys = append(keys, key)
	}
	return keys
}

// RedisSlots stores each slot as a plain Redis string.
type RedisSlots struct {
	client *redis.Client
}

// NewRedisSlots wraps a connected Redis client.
func NewRedisSlots(r *Redis) (*RedisSlots, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("redis client not configured")
	}
	return &RedisSlots{client: r.Client}, nil
}

func (s *RedisSlots) Load(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *RedisSlots) Save(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

// PostgresSlots stores slots as rows of the store_slots table.
type PostgresSlots struct {
	pool *pgxpool.Pool
}

// NewPostgresSlots wraps a connected pool.
func NewPostgresSlots(pg *Postgres) (*PostgresSlots, error) {
	pool := pg.PoolHandle()
	if pool == nil {
		return nil, errors.New("postgres pool not configured")
	}
	return &PostgresSlots{pool: pool}, nil
}

func (s *PostgresSlots) Load(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `SELECT value FROM store_slots WHERE key=$1`
	var value []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *PostgresSlots) Save(ctx context.Context, key string, value []byte) error {
	const query = `
        INSERT INTO store_slots (key, value, updated_at)
        VALUES ($1, $2::jsonb, NOW())
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`
	_, err := s.pool.Exec(ctx, query, key, string(value))
	return err
}
