package offerskit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisTokenStore shares one cached token between processes through Redis.
// The key expires with the token itself, so stale entries clean themselves up.
type RedisTokenStore struct {
	rdb *redis.Client
	key string
}

// RedisTokenStoreConfig configures the Redis-backed token store.
type RedisTokenStoreConfig struct {
	Address  string
	Password string
	DB       int
	// Key is the Redis key under which the token document is stored.
	// Defaults to "offerskit:token".
	Key string
}

// NewRedisTokenStore connects to Redis and verifies the connection.
func NewRedisTokenStore(cfg RedisTokenStoreConfig) (*RedisTokenStore, error) {
	if cfg.Address == "" {
		cfg.Address = "localhost:6379"
	}
	if cfg.Key == "" {
		cfg.Key = "offerskit:token"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisTokenStore{rdb: rdb, key: cfg.Key}, nil
}

// Load implements TokenStore.
func (s *RedisTokenStore) Load(ctx context.Context) (*AccessToken, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var token AccessToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, nil
	}
	if !token.Valid(time.Now()) {
		return nil, nil
	}
	return &token, nil
}

// Save implements TokenStore. The entry's TTL matches the token expiry.
func (s *RedisTokenStore) Save(ctx context.Context, token *AccessToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	ttl := time.Until(time.Unix(0, int64(token.ExpiresAt*float64(time.Second))))
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, s.key, data, ttl).Err()
}

// Clear implements TokenStore.
func (s *RedisTokenStore) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}

// Close releases the underlying Redis connection pool.
func (s *RedisTokenStore) Close() error {
	return s.rdb.Close()
}
