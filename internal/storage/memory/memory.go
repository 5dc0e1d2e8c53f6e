// Package memory provides an in-process storage.Backend, used by tests and
// by the CLI when no database path is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mmynk/orderwidget/internal/storage"
)

var _ storage.Backend = (*Backend)(nil)

// Backend keeps every profile's keys in maps guarded by one mutex.
type Backend struct {
	mu       sync.RWMutex
	profiles map[string]map[string]string
}

// New creates an empty in-memory backend.
func New() *Backend {
	return &Backend{profiles: make(map[string]map[string]string)}
}

// CreateProfile registers a new profile with a generated ID.
func (b *Backend) CreateProfile(_ context.Context) (string, error) {
	id := uuid.New().String()
	b.mu.Lock()
	b.profiles[id] = make(map[string]string)
	b.mu.Unlock()
	return id, nil
}

// ProfileExists reports whether the profile was registered.
func (b *Backend) ProfileExists(_ context.Context, profileID string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.profiles[profileID]
	return ok, nil
}

// Profile returns the store of one profile. Set on an unregistered profile
// fails with storage.ErrUnknownProfile, as the SQLite foreign key does.
func (b *Backend) Profile(profileID string) storage.Store {
	return &Store{backend: b, profileID: profileID}
}

// Close is a no-op.
func (b *Backend) Close() error { return nil }

// localProfile is the profile behind NewStore.
const localProfile = "local"

// NewStore returns a standalone single-profile store.
func NewStore() *Store {
	b := New()
	b.profiles[localProfile] = make(map[string]string)
	return &Store{backend: b, profileID: localProfile}
}

// Store is the storage.Store view of one profile.
type Store struct {
	backend   *Backend
	profileID string
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	v, ok := s.backend.profiles[s.profileID][key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	kv, ok := s.backend.profiles[s.profileID]
	if !ok {
		return fmt.Errorf("failed to set key %s: %w: %s", key, storage.ErrUnknownProfile, s.profileID)
	}
	kv[key] = value
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	delete(s.backend.profiles[s.profileID], key)
	return nil
}

func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	kv := s.backend.profiles[s.profileID]
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
