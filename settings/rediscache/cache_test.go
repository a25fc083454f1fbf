package rediscache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/circulation-manager-go/settings"
	"github.com/AntonStoeckl/circulation-manager-go/settings/rediscache"
)

type fakeClient struct {
	values  map[string]string
	ttls    map[string]time.Duration
	gets    int
	failGet error
}

func newFakeClient() *fakeClient {
	return &fakeClient{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *fakeClient) Get(_ context.Context, key string) *redis.StringCmd {
	c.gets++

	if c.failGet != nil {
		return redis.NewStringResult("", c.failGet)
	}

	value, ok := c.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}

	return redis.NewStringResult(value, nil)
}

func (c *fakeClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	c.values[key] = value.(string)
	c.ttls[key] = expiration

	return redis.NewStatusResult("OK", nil)
}

func (c *fakeClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	deleted := 0
	for _, key := range keys {
		if _, ok := c.values[key]; ok {
			delete(c.values, key)
			deleted++
		}
	}

	return redis.NewIntResult(int64(deleted), nil)
}

type countingStore struct {
	settings.Store
	gets int
}

func (s *countingStore) Get(ctx context.Context, library, key string) (string, bool, error) {
	s.gets++

	return s.Store.Get(ctx, library, key)
}

func givenCache(t *testing.T, options ...rediscache.Option) (*rediscache.Store, *countingStore, *fakeClient) {
	t.Helper()

	inner := &countingStore{Store: settings.NewMemoryStore()}
	client := newFakeClient()

	cache, err := rediscache.New(inner, client, options...)
	require.NoError(t, err)

	return cache, inner, client
}

func Test_Get_ReadsThrough(t *testing.T) {
	// setup
	ctx := context.Background()
	cache, inner, client := givenCache(t, rediscache.WithTTL(time.Minute), rediscache.WithKeyPrefix("test:"))

	// arrange
	require.NoError(t, inner.Set(ctx, "main", settings.KeyMaxOutstandingFines, "$1.00"))

	// act
	first, ok1, err1 := cache.Get(ctx, "main", settings.KeyMaxOutstandingFines)
	second, ok2, err2 := cache.Get(ctx, "main", settings.KeyMaxOutstandingFines)

	// assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, "$1.00", first)
	assert.Equal(t, "$1.00", second)
	assert.Equal(t, 1, inner.gets)
	assert.Equal(t, time.Minute, client.ttls["test:library:4:main:"+settings.KeyMaxOutstandingFines])
}

func Test_Get_KeepsLibrariesApart(t *testing.T) {
	testCases := []struct {
		name         string
		library, key string
		otherLibrary string
		otherKey     string
	}{
		{name: "colon in library and key", library: "a:b", key: "c", otherLibrary: "a", otherKey: "b:c"},
		{name: "library named like the sitewide marker", library: "sitewide", key: "k", otherLibrary: settings.Sitewide, otherKey: "k"},
		{name: "library named _sitewide", library: "_sitewide", key: "k", otherLibrary: settings.Sitewide, otherKey: "k"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			ctx := context.Background()
			cache, inner, client := givenCache(t)

			// arrange
			require.NoError(t, inner.Set(ctx, tc.library, tc.key, "first"))
			require.NoError(t, inner.Set(ctx, tc.otherLibrary, tc.otherKey, "second"))

			// act
			first, _, err1 := cache.Get(ctx, tc.library, tc.key)
			second, _, err2 := cache.Get(ctx, tc.otherLibrary, tc.otherKey)

			// assert
			require.NoError(t, err1)
			require.NoError(t, err2)
			assert.Equal(t, "first", first)
			assert.Equal(t, "second", second)
			assert.Len(t, client.values, 2)
		})
	}
}

func Test_Get_DoesNotCacheMissingSettings(t *testing.T) {
	// setup
	ctx := context.Background()
	cache, inner, client := givenCache(t)

	// act
	_, ok, err := cache.Get(ctx, settings.Sitewide, settings.KeyBaseURL)

	// assert
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, inner.gets)
	assert.Empty(t, client.values)
}

func Test_Get_PropagatesRedisErrors(t *testing.T) {
	// setup
	ctx := context.Background()
	cache, _, client := givenCache(t)
	client.failGet = errors.New("connection refused")

	// act
	_, _, err := cache.Get(ctx, settings.Sitewide, settings.KeyBaseURL)

	// assert
	assert.EqualError(t, err, "connection refused")
}

func Test_SetAndDelete_EvictCachedValues(t *testing.T) {
	// setup
	ctx := context.Background()
	cache, _, _ := givenCache(t)

	// arrange
	require.NoError(t, cache.Set(ctx, settings.Sitewide, settings.KeyHoldPolicy, "allow"))
	_, _, err := cache.Get(ctx, settings.Sitewide, settings.KeyHoldPolicy)
	require.NoError(t, err)

	// act
	require.NoError(t, cache.Set(ctx, settings.Sitewide, settings.KeyHoldPolicy, "hide"))
	updated, _, err := cache.Get(ctx, settings.Sitewide, settings.KeyHoldPolicy)
	require.NoError(t, err)

	require.NoError(t, cache.Delete(ctx, settings.Sitewide, settings.KeyHoldPolicy))
	_, ok, err := cache.Get(ctx, settings.Sitewide, settings.KeyHoldPolicy)
	require.NoError(t, err)

	// assert
	assert.Equal(t, "hide", updated)
	assert.False(t, ok)

	all, err := cache.All(ctx, settings.Sitewide)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func Test_New_RejectsNilStore(t *testing.T) {
	// act
	_, err := rediscache.New(nil, newFakeClient())

	// assert
	assert.ErrorIs(t, err, rediscache.ErrNilStore)
}
