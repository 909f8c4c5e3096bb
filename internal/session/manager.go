// Package session holds the cached user session of a device and the key-value stores
// behind it. Sessions are kept in Redis in production and in process memory otherwise.
package session

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a Store when a key holds no value
	ErrNotFound = errors.New("key not found")
	// ErrSessionNotFound is returned when no session is stored
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidSession is returned when session data is invalid
	ErrInvalidSession = errors.New("invalid session")
)

// Manager defines the interface for session management operations on the fixed session key
type Manager interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// manager implements Manager interface
type manager struct {
	store Store
	key   string
}

// NewManager creates a new session manager over the fixed key
func NewManager(store Store) Manager {
	return &manager{
		store: store,
		key:   Key,
	}
}

// Load reads and parses the stored session.
// It returns ErrSessionNotFound when nothing is stored and ErrInvalidSession when the
// stored value does not parse. Any other error is a store failure.
func (m *manager) Load(ctx context.Context) (*Session, error) {
	data, err := m.store.Get(ctx, m.key)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if data == "" {
		return nil, ErrSessionNotFound
	}

	return Decode(data)
}

// Save overwrites the stored session
func (m *manager) Save(ctx context.Context, s *Session) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	if err := m.store.Set(ctx, m.key, data, 0); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Clear removes the stored session
func (m *manager) Clear(ctx context.Context) error {
	if err := m.store.Delete(ctx, m.key); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
