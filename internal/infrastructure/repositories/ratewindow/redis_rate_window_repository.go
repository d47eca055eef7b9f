package ratewindow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

// reserveScript trims the sorted set of starts to the window, then either
// records a new start and returns 0, or returns the milliseconds until the
// oldest start that blocks admission expires.
var reserveScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count < limit then
	redis.call('ZADD', key, ARGV[1], ARGV[4])
	redis.call('PEXPIRE', key, window)
	return 0
end

local blocking = redis.call('ZRANGE', key, count - limit, count - limit, 'WITHSCORES')
local wait = tonumber(blocking[2]) + window - now
if wait < 1 then
	wait = 1
end
return wait
`)

// RedisRateWindowRepository keeps the start log in a redis sorted set per
// key, so every process pointed at the same server and key shares one budget.
type RedisRateWindowRepository struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisRateWindowRepository stores start logs under prefix+key.
func NewRedisRateWindowRepository(client redis.UniversalClient, prefix string) *RedisRateWindowRepository {
	return &RedisRateWindowRepository{client: client, prefix: prefix, now: time.Now}
}

// NewRedisRateWindowRepositoryFromSettings dials the configured server.
func NewRedisRateWindowRepositoryFromSettings(settings entities.RateStoreSettings) *RedisRateWindowRepository {
	//nolint:exhaustruct // Minimal Options initialization with required fields only
	client := redis.NewClient(&redis.Options{
		Addr:     settings.Address,
		Password: settings.Password,
		DB:       settings.DB,
	})
	return NewRedisRateWindowRepository(client, settings.KeyPrefix)
}

func (it *RedisRateWindowRepository) Reserve(
	ctx context.Context,
	key string,
	limit int,
	window time.Duration,
) (time.Duration, error) {
	waitMs, err := reserveScript.Run(ctx, it.client, []string{it.prefix + key},
		it.now().UnixMilli(),
		window.Milliseconds(),
		limit,
		uuid.NewString(),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to reserve start in redis window %q: %w", key, err)
	}
	return time.Duration(waitMs) * time.Millisecond, nil
}

// Close releases the redis connection pool.
func (it *RedisRateWindowRepository) Close() error {
	return it.client.Close()
}
