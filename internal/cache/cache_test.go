package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetDel(t *testing.T) {
	c := New()

	c.Set("k", "v", time.Minute)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	c.Del("k")

	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New()
	base := time.Now()
	c.now = func() time.Time { return base }

	c.Set("k", 1, 10*time.Second)

	c.now = func() time.Time { return base.Add(11 * time.Second) }

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestGetOrSetCachesLoaderResult(t *testing.T) {
	c := New()
	calls := 0

	loader := func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	}

	v, err := GetOrSet(context.Background(), c, "k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = GetOrSet(context.Background(), c, "k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestGetOrSetDoesNotCacheErrors(t *testing.T) {
	c := New()
	calls := 0
	boom := errors.New("boom")

	loader := func(ctx context.Context) (int, error) {
		calls++
		return 0, boom
	}

	_, err := GetOrSet(context.Background(), c, "k", time.Minute, loader)
	assert.ErrorIs(t, err, boom)

	_, err = GetOrSet(context.Background(), c, "k", time.Minute, loader)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestDelInvalidatesForNextGetOrSet(t *testing.T) {
	c := New()
	val := 1

	loader := func(ctx context.Context) (int, error) {
		return val, nil
	}

	v, err := GetOrSet(context.Background(), c, "k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	val = 2
	c.Del("k")

	v, err = GetOrSet(context.Background(), c, "k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "railgo:v1:train:3:summary", KeyTrainSummary(3))
	assert.Equal(t, "railgo:v1:search:City A:City B:Monday", KeySearch("City A", "City B", "Monday"))
}
