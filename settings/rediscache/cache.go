package rediscache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AntonStoeckl/circulation-manager-go/settings"
)

const (
	defaultKeyPrefix = "circulation:settings:"
	defaultTTL       = 5 * time.Minute
)

var ErrNilStore = errors.New("wrapped settings store must not be nil")

// Client is the subset of redis.Cmdable the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store caches single settings of the wrapped store in Redis.
type Store struct {
	inner     settings.Store
	client    Client
	keyPrefix string
	ttl       time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets how long a cached value lives.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithKeyPrefix sets the prefix of every Redis key.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		s.keyPrefix = prefix
	}
}

func New(inner settings.Store, client Client, options ...Option) (*Store, error) {
	if inner == nil {
		return nil, ErrNilStore
	}

	s := &Store{
		inner:     inner,
		client:    client,
		keyPrefix: defaultKeyPrefix,
		ttl:       defaultTTL,
	}

	for _, option := range options {
		option(s)
	}

	return s, nil
}

// Get serves from Redis when possible. Missing settings are not cached.
func (s *Store) Get(ctx context.Context, library, key string) (string, bool, error) {
	cacheKey := s.cacheKey(library, key)

	cached, err := s.client.Get(ctx, cacheKey).Result()
	switch {
	case err == nil:
		return cached, true, nil
	case !errors.Is(err, redis.Nil):
		return "", false, err
	}

	value, ok, err := s.inner.Get(ctx, library, key)
	if err != nil || !ok {
		return value, ok, err
	}

	if err = s.client.Set(ctx, cacheKey, value, s.ttl).Err(); err != nil {
		return "", false, err
	}

	return value, true, nil
}

func (s *Store) Set(ctx context.Context, library, key, value string) error {
	if err := s.inner.Set(ctx, library, key, value); err != nil {
		return err
	}

	return s.client.Del(ctx, s.cacheKey(library, key)).Err()
}

func (s *Store) Delete(ctx context.Context, library, key string) error {
	if err := s.inner.Delete(ctx, library, key); err != nil {
		return err
	}

	return s.client.Del(ctx, s.cacheKey(library, key)).Err()
}

// All always reads the wrapped store.
func (s *Store) All(ctx context.Context, library string) (map[string]string, error) {
	return s.inner.All(ctx, library)
}

// cacheKey length-prefixes the library so no library name or key can produce another pair's key.
func (s *Store) cacheKey(library, key string) string {
	if library == settings.Sitewide {
		return s.keyPrefix + "sitewide:" + key
	}

	return s.keyPrefix + "library:" + strconv.Itoa(len(library)) + ":" + library + ":" + key
}
