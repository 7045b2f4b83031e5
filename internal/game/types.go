// internal/game/types.go
//
// Core type definitions for the Chomp game engine.
// Defines:
//   - Player: the two stable player identifiers.
//   - Move: a bite at (row, col).
//   - Game: state for the single live game of a session.
//   - State: a read-only snapshot of a Game.
//   - The error taxonomy shared by the engine, the solver and the HTTP layer.

package game

import "errors"

// Player identifies one of the two players. The zero value means "nobody"
// and is used for an absent winner.
type Player int

const (
	NoPlayer Player = 0
	Player1  Player = 1
	Player2  Player = 2
)

// Other returns the opponent of p.
func (p Player) Other() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Move is a bite at a single cell. Biting (Row, Col) removes every cell with
// row >= Row and col >= Col.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

var (
	ErrIllegalMove            = errors.New("illegal move")
	ErrNothingToUndo          = errors.New("nothing to undo")
	ErrNoMoveAvailable        = errors.New("no move available")
	ErrConcurrentModification = errors.New("game changed during computer move")
	ErrNoGame                 = errors.New("no game in progress")
	ErrInvalidDimensions      = errors.New("invalid board dimensions")
)

// Game holds the state of a single Chomp game.
type Game struct {
	ID      string  // Unique game identifier (UUID).
	board   Board   // Current position.
	current Player  // Player to move.
	winner  Player  // NoPlayer until the game ends.
	history History // Snapshots taken before each move.
}

// State is an immutable snapshot of a Game, safe to hand out after the
// owning lock is released.
type State struct {
	GameID  string
	Board   Board
	Current Player
	Winner  Player
	Moves   int
}

// Rows and Cols report the board dimensions.
func (s State) Rows() int { return s.Board.Rows() }
func (s State) Cols() int { return s.Board.Cols() }

// Terminal reports whether only the poison cell remains.
func (s State) Terminal() bool { return s.Board.IsTerminal() }
