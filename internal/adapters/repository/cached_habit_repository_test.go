package repository

import (
	"context"
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-constellation/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	rdb, err := cache.NewRedisClient(context.Background(), cache.Options{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       2,
	})
	if err != nil {
		t.Skipf("Skipping cache integration test: %v", err)
	}
	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestCachedHabitRepository_Integration(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	next := NewInMemoryHabitRepository()
	repo := NewCachedHabitRepository(next, rdb, zap.NewNop())

	habit, err := domain.NewHabit("cache-owner", "Stretch", []int{1, 2})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, habit))

	t.Run("First read fills the cache", func(t *testing.T) {
		list, err := repo.ListByUserID(ctx, "cache-owner")
		require.NoError(t, err)
		require.Len(t, list, 1)

		exists, err := rdb.Exists(ctx, "habits:cache-owner").Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists)

		ttl, err := rdb.TTL(ctx, "habits:cache-owner").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 29*time.Minute)
	})

	t.Run("Create invalidates the owner's key", func(t *testing.T) {
		other, err := domain.NewHabit("cache-owner", "Walk", []int{0})
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, other))

		exists, err := rdb.Exists(ctx, "habits:cache-owner").Result()
		require.NoError(t, err)
		assert.Equal(t, int64(0), exists)

		list, err := repo.ListByUserID(ctx, "cache-owner")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("UpdateProgress invalidates the owner's key", func(t *testing.T) {
		_, err := repo.ListByUserID(ctx, "cache-owner")
		require.NoError(t, err)

		require.NoError(t, repo.UpdateProgress(ctx, habit.ID, 3, nil))

		list, err := repo.ListByUserID(ctx, "cache-owner")
		require.NoError(t, err)
		for _, h := range list {
			if h.ID == habit.ID {
				assert.Equal(t, 3, h.Streak)
			}
		}
	})

	t.Run("Corrupted entry falls through to the store", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "habits:cache-owner", "{not json", time.Minute).Err())

		list, err := repo.ListByUserID(ctx, "cache-owner")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
}
