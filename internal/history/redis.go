package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"apptravel/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps histories in Redis lists so several model-server processes share them
type RedisStore struct {
	client *redis.Client
	prefix string
	limit  int
}

// NewRedisClient creates a client and checks the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedisStore creates a store keeping at most limit entries per user
func NewRedisStore(client *redis.Client, prefix string, limit int) *RedisStore {
	if limit <= 0 {
		limit = 10
	}
	return &RedisStore{client: client, prefix: prefix, limit: limit}
}

// conversation lists live under "conv:" so no user id can collide with the users set
func (s *RedisStore) key(userID model.UserID) string {
	return s.prefix + "conv:" + string(userID)
}

func (s *RedisStore) usersKey() string {
	return s.prefix + "users"
}

// Recent implements Store
func (s *RedisStore) Recent(ctx context.Context, userID model.UserID, n int) ([]Entry, error) {
	start := int64(0)
	if n > 0 {
		start = int64(-n)
	}
	raw, err := s.client.LRange(ctx, s.key(userID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: lrange: %v", ErrUnavailable, err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			log.Printf("⚠️  Skipping corrupt history entry for user %s: %v", userID, err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Append implements Store. Push and trim run in one MULTI so concurrent
// writers for the same user never observe more than limit entries.
func (s *RedisStore) Append(ctx context.Context, userID model.UserID, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal history entry: %w", err)
		}
		values = append(values, data)
	}

	key := s.key(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, int64(-s.limit), -1)
		pipe.SAdd(ctx, s.usersKey(), string(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: append: %v", ErrUnavailable, err)
	}
	return nil
}

// Reset implements Store
func (s *RedisStore) Reset(ctx context.Context, userID model.UserID) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(userID))
		pipe.SRem(ctx, s.usersKey(), string(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: reset: %v", ErrUnavailable, err)
	}
	return nil
}

// Count implements Store
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, s.usersKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: scard: %v", ErrUnavailable, err)
	}
	return int(n), nil
}

var _ Store = (*RedisStore)(nil)
