// Package sqlite provides a SQLite-backed implementation of storage.Backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/orderwidget/internal/storage"
)

// Ensure SQLiteStore implements storage.Backend
var _ storage.Backend = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Backend using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer; SQLite would otherwise report SQLITE_BUSY under load
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateProfile registers a new profile with a generated ID.
func (s *SQLiteStore) CreateProfile(ctx context.Context) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO profiles (id, created_at) VALUES (?, ?)",
		id, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert profile: %w", err)
	}
	return id, nil
}

// ProfileExists reports whether the profile was registered.
func (s *SQLiteStore) ProfileExists(ctx context.Context, profileID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM profiles WHERE id = ?",
		profileID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to look up profile: %w", err)
	}
	return n > 0, nil
}

// Profile returns the key/value store of one profile.
func (s *SQLiteStore) Profile(profileID string) storage.Store {
	return &profileStore{db: s.db, profileID: profileID}
}

// profileStore is the storage.Store view of one profile's rows.
type profileStore struct {
	db        *sql.DB
	profileID string
}

func (p *profileStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRowContext(ctx,
		"SELECT value FROM kv WHERE profile_id = ? AND key = ?",
		p.profileID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, true, nil
}

func (p *profileStore) Set(ctx context.Context, key, value string) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO kv (profile_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (profile_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		p.profileID, key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (p *profileStore) Remove(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx,
		"DELETE FROM kv WHERE profile_id = ? AND key = ?",
		p.profileID, key,
	)
	if err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

func (p *profileStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx,
		"SELECT key FROM kv WHERE profile_id = ? ORDER BY key",
		p.profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate keys: %w", err)
	}
	return keys, nil
}
