// Package storage provides abstractions for the durable per-profile store.
package storage

import (
	"context"
	"errors"
)

// ErrUnknownProfile is returned when writing to a profile that was never
// created.
var ErrUnknownProfile = errors.New("unknown profile")

// Store is a durable string key/value store scoped to one browser profile.
// Each key is written independently and immediately; there are no
// transactions across keys, so readers must treat missing keys as defaults.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys lists every key currently stored, in ascending order.
	Keys(ctx context.Context) ([]string, error)
}

// Backend hands out per-profile stores.
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the service layer.
type Backend interface {
	// CreateProfile registers a new profile and returns its ID.
	CreateProfile(ctx context.Context) (string, error)

	// ProfileExists reports whether the profile was registered.
	ProfileExists(ctx context.Context, profileID string) (bool, error)

	// Profile returns the store of one profile. Writes to a profile that
	// CreateProfile never returned fail.
	Profile(profileID string) Store

	// Close releases any resources held by the backend.
	Close() error
}
