package middleware

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "fitness:ratelimit:"

// takeScript increments the counter and sets its expiry in one step. A key
// left without a TTL gets one on its next hit.
var takeScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisStore shares counters between API instances. Each key expires with its window.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects using a redis:// or rediss:// URL.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Take(ctx context.Context, key string, max int, window time.Duration) (bool, error) {
	count, err := takeScript.Run(ctx, s.client, []string{redisKeyPrefix + key}, window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return count <= int64(max), nil
}

func (s *RedisStore) Remaining(ctx context.Context, key string, max int) (int, error) {
	count, err := s.client.Get(ctx, redisKeyPrefix+key).Int()
	if stderrors.Is(err, redis.Nil) {
		return max, nil
	}
	if err != nil {
		return 0, err
	}
	if left := max - count; left > 0 {
		return left, nil
	}
	return 0, nil
}

func (s *RedisStore) Reset(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
