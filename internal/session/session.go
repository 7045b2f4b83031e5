// internal/session/session.go
//
// Session facade: the single live Chomp game of one client.
//
// Responsibilities:
//   - Expose the six game operations (Start, Move, ComputerMove, Undo, State,
//     Lost) as the only way to change a session's game.
//   - Serialize mutations with a write lock; queries take the read lock and
//     return immutable snapshots.
//   - Run the opponent search on a board snapshot without holding the lock,
//     then re-check the game version before applying the result.
//
// Notes:
//   - A session with no started game answers every operation except Lost
//     with game.ErrNoGame.
//   - The Searcher is shared between sessions; it must be safe for
//     concurrent use.

package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Shak2000/ChompSolver/internal/game"
	"github.com/Shak2000/ChompSolver/internal/solver"
)

// Searcher picks computer moves. *solver.Solver implements it.
type Searcher interface {
	Choose(ctx context.Context, b game.Board) (solver.Choice, error)
}

// Limits bounds what a session accepts.
type Limits struct {
	MaxRows       int
	MaxCols       int
	SearchTimeout time.Duration // 0 disables the search budget
}

// Session holds one client's game.
type Session struct {
	ID string

	searcher Searcher
	limits   Limits

	mu      sync.RWMutex
	game    *game.Game // nil until the first Start
	version uint64     // bumped by every mutation

	lastSeen atomic.Int64 // unix nanos of the last operation
}

// New constructs an empty session.
func New(id string, searcher Searcher, limits Limits) *Session {
	s := &Session{ID: id, searcher: searcher, limits: limits}
	s.seen()
	return s
}

// Start replaces the session's game with a fresh rows × cols game.
func (s *Session) Start(rows, cols int) (game.State, error) {
	s.seen()
	if rows <= 0 || cols <= 0 {
		return game.State{}, fmt.Errorf("%w: rows and cols must be positive", game.ErrInvalidDimensions)
	}
	if (s.limits.MaxRows > 0 && rows > s.limits.MaxRows) || (s.limits.MaxCols > 0 && cols > s.limits.MaxCols) {
		return game.State{}, fmt.Errorf("%w: at most %dx%d, got %dx%d",
			game.ErrInvalidDimensions, s.limits.MaxRows, s.limits.MaxCols, rows, cols)
	}
	g, err := game.New(rows, cols)
	if err != nil {
		return game.State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.game = g
	s.touch()
	log.Debug().Str("session", s.ID).Str("game", g.ID).Int("rows", rows).Int("cols", cols).Msg("game started")
	return g.State(), nil
}

// Move applies a bite by the player to move.
func (s *Session) Move(row, col int) (game.State, error) {
	s.seen()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return game.State{}, game.ErrNoGame
	}
	if err := s.game.Play(row, col); err != nil {
		return game.State{}, err
	}
	s.touch()
	return s.game.State(), nil
}

// ComputerMove lets the opponent search pick and play a move for the player
// to move.
//
// The board is snapshotted under the read lock and searched without any lock.
// If the game changed meanwhile (new start, move or undo) the result is
// dropped and game.ErrConcurrentModification is returned; the caller may
// retry. If ctx ends before the search completes, nothing is applied.
func (s *Session) ComputerMove(ctx context.Context) (game.State, error) {
	s.seen()
	s.mu.RLock()
	if s.game == nil {
		s.mu.RUnlock()
		return game.State{}, game.ErrNoGame
	}
	board := s.game.Board()
	version := s.version
	s.mu.RUnlock()

	if board.IsTerminal() {
		return game.State{}, fmt.Errorf("%w: only the poison square is left", game.ErrNoMoveAvailable)
	}

	searchCtx := ctx
	if s.limits.SearchTimeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, s.limits.SearchTimeout)
		defer cancel()
	}
	choice, err := s.searcher.Choose(searchCtx, board)
	if err != nil {
		return game.State{}, err
	}
	if err := ctx.Err(); err != nil {
		return game.State{}, err
	}
	if !choice.Exhaustive {
		log.Warn().Str("session", s.ID).Str("board", board.String()).
			Dur("budget", s.limits.SearchTimeout).Msg("search budget exhausted, playing fallback move")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil || s.version != version {
		return game.State{}, game.ErrConcurrentModification
	}
	if err := s.game.Play(choice.Move.Row, choice.Move.Col); err != nil {
		return game.State{}, fmt.Errorf("%w: %v", game.ErrConcurrentModification, err)
	}
	s.touch()
	return s.game.State(), nil
}

// Undo takes back the last move.
func (s *Session) Undo() (game.State, error) {
	s.seen()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return game.State{}, game.ErrNoGame
	}
	if err := s.game.Undo(); err != nil {
		return game.State{}, err
	}
	s.touch()
	return s.game.State(), nil
}

// State returns a consistent snapshot of the current game.
func (s *Session) State() (game.State, error) {
	s.seen()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.game == nil {
		return game.State{}, game.ErrNoGame
	}
	return s.game.State(), nil
}

// Lost reports whether only the poison square is left. It is false when no
// game has been started.
func (s *Session) Lost() bool {
	s.seen()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game != nil && s.game.Board().IsTerminal()
}

// LastSeen returns the time of the last operation on the session.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) seen() { s.lastSeen.Store(time.Now().UnixNano()) }

// touch records a mutation. Callers hold the write lock.
func (s *Session) touch() { s.version++ }
