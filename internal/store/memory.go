// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Playback sessions are ephemeral: they live only as long as the process,
// which also keeps move scripts from outliving the session that compiled them.
//
// Characteristics:
//   - Stores *playback.Controller values keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Get returns ErrNotFound for unknown IDs.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/akonno/HanoiSimulator/internal/playback"
)

// ErrNotFound is returned by Get and Delete for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for playback sessions.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, c *playback.Controller) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*playback.Controller, error)

	// Delete drops a session.
	Delete(ctx context.Context, id string) error

	// Len reports the number of live sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex                    // guards sessions map
	sessions map[string]*playback.Controller // keyed by Controller.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*playback.Controller)}
}

func (m *memory) Save(ctx context.Context, c *playback.Controller) error {
	if c == nil || c.ID == "" {
		return errors.New("session without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[c.ID] = c
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*playback.Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.sessions[id]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
