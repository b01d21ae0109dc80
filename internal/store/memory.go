// internal/store/memory.go
//
// In-memory implementation of the Store interface for active game sessions.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; finished games are recorded
//     in SQLite by the history package.
//   - ErrNotFound is returned for missing game IDs on Get().

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/guess/internal/game"
)

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for active game sessions.
type Store interface {
	// Save persists or updates a game state.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Delete drops a game; missing IDs are ignored.
	Delete(ctx context.Context, id string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex          // guards games map
	games map[string]*game.Game // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	if g == nil || g.ID == "" {
		return errors.New("store: game without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}
