package database

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yashrajoria/storefront/models"
)

// cartKeyPrefix namespaces the persisted item list per browser session.
const cartKeyPrefix = "cartItems:"

// CartKey is the storage key for a session's cart.
func CartKey(sessionID string) string { return cartKeyPrefix + sessionID }

// CartStorage persists a cart's item list as a single blob.
type CartStorage interface {
	Load(ctx context.Context, key string) ([]models.CartItem, error)
	Save(ctx context.Context, key string, items []models.CartItem) error
	Delete(ctx context.Context, key string) error
}

type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{client: client, ttl: ttl}
}

// Load returns an empty list when nothing is stored under key.
func (r *RedisCartRepository) Load(ctx context.Context, key string) ([]models.CartItem, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Save rewrites the whole list and refreshes the TTL.
func (r *RedisCartRepository) Save(ctx context.Context, key string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *RedisCartRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// MemoryCartRepository keeps carts in process memory. It is used when no Redis
// URL is configured, which is enough for a single local instance.
type MemoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{carts: make(map[string][]byte)}
}

func (m *MemoryCartRepository) Load(_ context.Context, key string) ([]models.CartItem, error) {
	m.mu.RLock()
	data, ok := m.carts[key]
	m.mu.RUnlock()
	if !ok {
		return []models.CartItem{}, nil
	}
	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (m *MemoryCartRepository) Save(_ context.Context, key string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.carts[key] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryCartRepository) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.carts, key)
	m.mu.Unlock()
	return nil
}
