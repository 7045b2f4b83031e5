// internal/solver/solver.go
//
// Computer opponent for Chomp.
//
// Every staircase shape is a position of an impartial game. The position with
// only the poison square left is lost for the player to move; any other
// position is lost iff every move from it reaches a position that is won for
// the player to move. Verdicts are memoized by canonical shape key in a table
// shared by every caller, since a shape means the same thing on any grid.
//
// Choose picks the first winning move in row-major order, or the first legal
// move when the position is already lost. Root moves are searched on a
// bounded worker pool; the answer does not depend on the pool size.
//
// Search is exponential in the worst case. Callers bound it with a context
// deadline; when the deadline hits, Choose falls back to the first legal move
// unless a winning move was already proven with every earlier move refuted.

package solver

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Shak2000/ChompSolver/internal/game"
)

// ctxCheckInterval is how many fresh positions a walker expands between
// context checks.
const ctxCheckInterval = 1024

// Options configures a Solver.
type Options struct {
	Workers    int // root moves searched in parallel; <= 0 means NumCPU
	MaxEntries int // memo capacity; <= 0 means unbounded
}

// Solver is safe for concurrent use.
type Solver struct {
	memo    *memo
	workers int
}

// Choice is the outcome of a move search.
type Choice struct {
	Move       game.Move
	Winning    bool  // Move leaves the opponent in a lost position.
	Exhaustive bool  // The search completed; false means a fallback move.
	Nodes      int64 // Positions expanded (memo misses).
}

// New constructs a Solver.
func New(opts Options) *Solver {
	w := opts.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	return &Solver{memo: newMemo(opts.MaxEntries), workers: w}
}

// MemoSize reports the number of cached positions.
func (s *Solver) MemoSize() int { return s.memo.len() }

// Reset drops every cached position.
func (s *Solver) Reset() { s.memo.clear() }

// IsLosing reports whether the player to move in b loses against perfect play.
func (s *Solver) IsLosing(ctx context.Context, b game.Board) (bool, error) {
	w := &walker{memo: s.memo, ctx: ctx}
	return w.losing(b)
}

type rootResult struct {
	losing bool
	err    error
	nodes  int64
}

// Choose selects a move for the player to move in b.
// It fails with game.ErrNoMoveAvailable when only the poison square is left.
// A context that ends mid-search yields a fallback Choice, not an error.
func (s *Solver) Choose(ctx context.Context, b game.Board) (Choice, error) {
	moves := b.Moves()
	if len(moves) == 0 {
		return Choice{}, game.ErrNoMoveAvailable
	}
	start := time.Now()

	results := make([]rootResult, len(moves))
	var firstWin atomic.Int64
	firstWin.Store(int64(len(moves)))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, m := range moves {
		if int64(i) > firstWin.Load() {
			break
		}
		g.Go(func() error {
			if int64(i) > firstWin.Load() {
				return nil
			}
			child, err := b.Apply(m.Row, m.Col)
			if err != nil {
				results[i].err = err
				return nil
			}
			w := &walker{memo: s.memo, ctx: ctx}
			results[i].losing, results[i].err = w.losing(child)
			results[i].nodes = w.nodes
			if results[i].err == nil && results[i].losing {
				for {
					cur := firstWin.Load()
					if int64(i) >= cur || firstWin.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	choice := Choice{Move: moves[0], Exhaustive: true}
	for i := range moves {
		r := results[i]
		choice.Nodes += r.nodes
		if r.err != nil {
			choice.Exhaustive = false
			break
		}
		if r.losing {
			choice.Move = moves[i]
			choice.Winning = true
			break
		}
	}

	log.Debug().
		Str("board", b.String()).
		Int("moves", len(moves)).
		Int("row", choice.Move.Row).
		Int("col", choice.Move.Col).
		Bool("winning", choice.Winning).
		Bool("exhaustive", choice.Exhaustive).
		Int64("nodes", choice.Nodes).
		Int("memo", s.memo.len()).
		Dur("elapsed", time.Since(start)).
		Msg("computer move chosen")
	return choice, nil
}

// walker runs one depth-first search. It is not shared between goroutines;
// only the memo is.
type walker struct {
	memo  *memo
	ctx   context.Context
	nodes int64
}

func (w *walker) losing(b game.Board) (bool, error) {
	key := b.Key()
	if v, ok := w.memo.get(key); ok {
		return v, nil
	}
	w.nodes++
	if w.nodes%ctxCheckInterval == 1 {
		if err := w.ctx.Err(); err != nil {
			return false, err
		}
	}

	result := true
	for _, m := range b.Moves() {
		child, err := b.Apply(m.Row, m.Col)
		if err != nil {
			return false, err
		}
		childLosing, err := w.losing(child)
		if err != nil {
			return false, err
		}
		if childLosing {
			result = false
			break
		}
	}
	w.memo.put(key, result)
	return result, nil
}
