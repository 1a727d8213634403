package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ganot/fleetmaint/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestCache_ReadThroughAndInvalidate(t *testing.T) {
	ctx := context.Background()
	cache := repository.NewCache[string, int]()

	loads := 0
	load := func(context.Context) (int, error) {
		loads++
		return loads, nil
	}

	v, err := cache.Get(ctx, "w1", load)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	v, err = cache.Get(ctx, "w1", load)
	require.NoError(t, err)
	require.Equal(t, 1, v)
	require.Equal(t, 1, loads)

	cache.Invalidate("w1")
	v, err = cache.Get(ctx, "w1", load)
	require.NoError(t, err)
	require.Equal(t, 2, v)

	cache.InvalidateAll()
	v, err = cache.Get(ctx, "w1", load)
	require.NoError(t, err)
	require.Equal(t, 3, v)
}

func TestCache_LoadErrorNotCached(t *testing.T) {
	ctx := context.Background()
	cache := repository.NewCache[string, int]()

	_, err := cache.Get(ctx, "w1", func(context.Context) (int, error) {
		return 0, repository.ErrNotFound
	})
	require.True(t, errors.Is(err, repository.ErrNotFound))

	v, err := cache.Get(ctx, "w1", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestCache_LoadOverlappingInvalidateIsNotStored(t *testing.T) {
	ctx := context.Background()
	cache := repository.NewCache[string, string]()

	v, err := cache.Get(ctx, "w1", func(context.Context) (string, error) {
		// a writer commits and invalidates while the read is in flight
		cache.Invalidate("w1")
		return "stale", nil
	})
	require.NoError(t, err)
	require.Equal(t, "stale", v)

	v, err = cache.Get(ctx, "w1", func(context.Context) (string, error) { return "fresh", nil })
	require.NoError(t, err)
	require.Equal(t, "fresh", v)

	_, err = cache.Get(ctx, "w2", func(context.Context) (string, error) {
		cache.InvalidateAll()
		return "stale", nil
	})
	require.NoError(t, err)
	v, err = cache.Get(ctx, "w2", func(context.Context) (string, error) { return "fresh", nil })
	require.NoError(t, err)
	require.Equal(t, "fresh", v)

	// an invalidation of another key leaves this load cacheable
	_, err = cache.Get(ctx, "w3", func(context.Context) (string, error) {
		cache.Invalidate("w1")
		return "kept", nil
	})
	require.NoError(t, err)
	v, err = cache.Get(ctx, "w3", func(context.Context) (string, error) { return "reloaded", nil })
	require.NoError(t, err)
	require.Equal(t, "kept", v)
}
