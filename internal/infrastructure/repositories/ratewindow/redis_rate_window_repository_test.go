//go:build unit

package ratewindow_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
	"github.com/rios0rios0/repofetch/internal/infrastructure/repositories/ratewindow"
)

func TestRedisRateWindowRepositoryReserve(t *testing.T) {
	t.Parallel()

	t.Run("should admit up to the limit and report the wait for the next start", func(t *testing.T) {
		t.Parallel()

		// given
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		repo := ratewindow.NewRedisRateWindowRepository(rdb, "test:")
		clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
		ratewindow.SetRedisClock(repo, clock.Now)
		t.Cleanup(func() { _ = repo.Close() })

		// when
		var waits []time.Duration
		for range 3 {
			wait, err := repo.Reserve(context.Background(), "github", 2, time.Second)
			require.NoError(t, err)
			waits = append(waits, wait)
			clock.Advance(250 * time.Millisecond)
		}

		// then
		assert.Equal(t, []time.Duration{0, 0, 500 * time.Millisecond}, waits)
		members, err := rdb.ZCard(context.Background(), "test:github").Result()
		require.NoError(t, err)
		assert.Equal(t, int64(2), members)
	})

	t.Run("should share one window between repositories on the same server", func(t *testing.T) {
		t.Parallel()

		// given
		mr := miniredis.RunT(t)
		clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
		first := ratewindow.NewRedisRateWindowRepository(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")
		second := ratewindow.NewRedisRateWindowRepository(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")
		ratewindow.SetRedisClock(first, clock.Now)
		ratewindow.SetRedisClock(second, clock.Now)
		t.Cleanup(func() {
			_ = first.Close()
			_ = second.Close()
		})
		_, err := first.Reserve(context.Background(), "github", 1, time.Second)
		require.NoError(t, err)

		// when
		wait, err := second.Reserve(context.Background(), "github", 1, time.Second)

		// then
		require.NoError(t, err)
		assert.Equal(t, time.Second, wait)
	})

	t.Run("should admit again after the window elapsed", func(t *testing.T) {
		t.Parallel()

		// given
		mr := miniredis.RunT(t)
		repo := ratewindow.NewRedisRateWindowRepositoryFromSettings(entities.RateStoreSettings{
			Type:      entities.RateStoreRedis,
			Address:   mr.Addr(),
			KeyPrefix: "test:",
		})
		clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
		ratewindow.SetRedisClock(repo, clock.Now)
		t.Cleanup(func() { _ = repo.Close() })
		_, err := repo.Reserve(context.Background(), "github", 1, time.Second)
		require.NoError(t, err)

		// when
		clock.Advance(time.Second)
		wait, err := repo.Reserve(context.Background(), "github", 1, time.Second)

		// then
		require.NoError(t, err)
		assert.Zero(t, wait)
	})

	t.Run("should wrap connection failures", func(t *testing.T) {
		t.Parallel()

		// given
		mr := miniredis.RunT(t)
		repo := ratewindow.NewRedisRateWindowRepository(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")
		t.Cleanup(func() { _ = repo.Close() })
		mr.Close()

		// when
		_, err := repo.Reserve(context.Background(), "github", 1, time.Second)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to reserve start in redis window")
	})
}
