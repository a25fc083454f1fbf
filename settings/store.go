package settings

import (
	"context"
	"errors"
	"maps"
	"sync"
)

// Sitewide is the library name of sitewide settings.
const Sitewide = ""

// ErrEmptyKey is returned by stores for an empty setting key.
var ErrEmptyKey = errors.New("setting key must not be empty")

// Store reads and writes settings. Get reports false for unset keys.
type Store interface {
	Get(ctx context.Context, library, key string) (string, bool, error)
	Set(ctx context.Context, library, key, value string) error
	Delete(ctx context.Context, library, key string) error
	All(ctx context.Context, library string) (map[string]string, error)
}

// MemoryStore is a Store in process memory, safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	settings map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: map[string]map[string]string{}}
}

func (s *MemoryStore) Get(ctx context.Context, library, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.settings[library][key]

	return value, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, library, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings[library] == nil {
		s.settings[library] = map[string]string{}
	}

	s.settings[library][key] = value

	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, library, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.settings[library], key)

	return nil
}

func (s *MemoryStore) All(ctx context.Context, library string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make(map[string]string, len(s.settings[library]))
	maps.Copy(all, s.settings[library])

	return all, nil
}
