// internal/game/engine.go
//
// Core game engine for a single Chomp game.
// Responsibilities:
//   - Create new games on a full rows × cols board, player 1 to move.
//   - Validate and apply bites, alternating the player to move.
//   - Detect the end of the game: the player who leaves only the poison
//     square standing wins, so nobody is ever made to eat it.
//   - Keep a linear undo stack of (board, player) snapshots.
//
// Notes:
//   - Game is not safe for concurrent use; the session layer serializes access.
//   - Board values are immutable, so snapshots share them freely.
package game

import (
	"fmt"

	"github.com/google/uuid"
)

// New constructs a new game on a full rows × cols board.
func New(rows, cols int) (*Game, error) {
	b, err := NewBoard(rows, cols)
	if err != nil {
		return nil, err
	}
	return &Game{
		ID:      uuid.NewString(),
		board:   b,
		current: Player1,
	}, nil
}

// Board returns the current position.
func (g *Game) Board() Board { return g.board }

// Current returns the player to move.
func (g *Game) Current() Player { return g.current }

// Winner returns the winner, or NoPlayer while the game is undecided.
// A game started on a 1×1 board is terminal with no winner.
func (g *Game) Winner() Player { return g.winner }

// Moves returns the number of moves made since the start (net of undos).
func (g *Game) Moves() int { return g.history.Len() }

// Play applies a bite for the player to move.
//
// Validation rules:
//   - The game must not be over (only poison left).
//   - (row, col) must be on the board, present, and not the poison square.
//
// State transitions:
//   - The prior (board, player) is pushed onto the undo stack.
//   - The turn passes to the other player.
//   - If only poison remains, the mover is recorded as the winner.
func (g *Game) Play(row, col int) error {
	if g.board.IsTerminal() {
		return fmt.Errorf("%w: game is over", ErrIllegalMove)
	}
	next, err := g.board.Apply(row, col)
	if err != nil {
		return err
	}
	mover := g.current
	g.history.Push(HistoryEntry{Board: g.board, Current: mover})
	g.board = next
	g.current = mover.Other()
	if next.IsTerminal() {
		g.winner = mover
	}
	return nil
}

// Undo restores the position before the last move and clears any winner.
func (g *Game) Undo() error {
	prev, ok := g.history.Pop()
	if !ok {
		return ErrNothingToUndo
	}
	g.board = prev.Board
	g.current = prev.Current
	g.winner = NoPlayer
	return nil
}

// State returns a snapshot of the game.
func (g *Game) State() State {
	return State{
		GameID:  g.ID,
		Board:   g.board,
		Current: g.current,
		Winner:  g.winner,
		Moves:   g.history.Len(),
	}
}
