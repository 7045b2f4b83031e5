// internal/store/memory.go
//
// In-memory registry of client sessions.
// Live games are ephemeral: they are lost when the process restarts.
//
// Characteristics:
//   - Stores *session.Session objects keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - GetOrCreate is atomic, so two first requests from the same client never
//     end up with two sessions.
//   - Sweep drops sessions idle for longer than a TTL.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Shak2000/ChompSolver/internal/session"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the registry interface for sessions.
type Store interface {
	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*session.Session, error)

	// GetOrCreate returns the session for id, creating it with create if absent.
	GetOrCreate(ctx context.Context, id string, create func(id string) *session.Session) *session.Session

	// Sweep removes sessions idle since before cutoff and reports how many.
	Sweep(ctx context.Context, cutoff time.Time) int

	// Len reports the number of live sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex                // guards sessions map
	sessions map[string]*session.Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*session.Session)}
}

func (m *memory) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) GetOrCreate(ctx context.Context, id string, create func(id string) *session.Session) *session.Session {
	if s, err := m.Get(ctx, id); err == nil {
		return s
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := create(id)
	m.sessions[id] = s
	return s
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	if n > 0 {
		log.Debug().Int("removed", n).Int("live", len(m.sessions)).Msg("swept idle sessions")
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunSweeper calls Sweep every interval until ctx is done, dropping sessions
// idle for longer than ttl.
func RunSweeper(ctx context.Context, st Store, ttl, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			st.Sweep(ctx, now.Add(-ttl))
		}
	}
}
