// internal/game/board.go
//
// Immutable Chomp board.
//
// A board is stored as its column height profile: heights[c] is the number of
// leading rows still present in column c. The present cells form a down-set
// (staircase) exactly when the profile is non-increasing and bounded by the
// row count, so every Board value carries the invariant in its shape and
// Apply can only ever produce another valid board.
//
// Board values are never mutated after construction. Apply copies.

package game

import (
	"encoding/binary"
	"fmt"
	"slices"
)

// Board is a rows × cols Chomp board. The zero value is an empty 0×0 board.
type Board struct {
	rows    int
	heights []int
}

// NewBoard returns a full rows × cols board.
func NewBoard(rows, cols int) (Board, error) {
	if rows <= 0 || cols <= 0 {
		return Board{}, fmt.Errorf("%w: rows and cols must be positive, got %dx%d", ErrInvalidDimensions, rows, cols)
	}
	h := make([]int, cols)
	for c := range h {
		h[c] = rows
	}
	return Board{rows: rows, heights: h}, nil
}

// FromHeights builds a board from a column height profile.
// The profile must be non-increasing, bounded by rows, and keep the poison
// cell present.
func FromHeights(rows int, heights []int) (Board, error) {
	if rows <= 0 || len(heights) == 0 {
		return Board{}, fmt.Errorf("%w: rows and cols must be positive, got %dx%d", ErrInvalidDimensions, rows, len(heights))
	}
	b := Board{rows: rows, heights: slices.Clone(heights)}
	if err := b.validate(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// FromGrid builds a board from a row-major presence grid.
// The grid must be rectangular and describe a staircase containing (0,0).
func FromGrid(grid [][]bool) (Board, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return Board{}, fmt.Errorf("%w: empty grid", ErrInvalidDimensions)
	}
	rows, cols := len(grid), len(grid[0])
	heights := make([]int, cols)
	for r, row := range grid {
		if len(row) != cols {
			return Board{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidDimensions, r, len(row), cols)
		}
	}
	for c := 0; c < cols; c++ {
		for heights[c] < rows && grid[heights[c]][c] {
			heights[c]++
		}
		for r := heights[c]; r < rows; r++ {
			if grid[r][c] {
				return Board{}, fmt.Errorf("%w: cell (%d,%d) present below a gap", ErrInvalidDimensions, r, c)
			}
		}
	}
	return FromHeights(rows, heights)
}

func (b Board) validate() error {
	if b.heights[0] < 1 {
		return fmt.Errorf("%w: poison cell missing", ErrInvalidDimensions)
	}
	for c, h := range b.heights {
		if h < 0 || h > b.rows {
			return fmt.Errorf("%w: column %d height %d outside [0,%d]", ErrInvalidDimensions, c, h, b.rows)
		}
		if c > 0 && h > b.heights[c-1] {
			return fmt.Errorf("%w: column %d taller than column %d", ErrInvalidDimensions, c, c-1)
		}
	}
	return nil
}

// Rows returns the number of grid rows.
func (b Board) Rows() int { return b.rows }

// Cols returns the number of grid columns.
func (b Board) Cols() int { return len(b.heights) }

// Heights returns a copy of the column height profile.
func (b Board) Heights() []int { return slices.Clone(b.heights) }

// Present reports whether (row, col) is on the grid and not yet eaten.
func (b Board) Present(row, col int) bool {
	if row < 0 || col < 0 || row >= b.rows || col >= len(b.heights) {
		return false
	}
	return row < b.heights[col]
}

// Remaining returns the number of present cells, poison included.
func (b Board) Remaining() int {
	n := 0
	for _, h := range b.heights {
		n += h
	}
	return n
}

// IsTerminal reports whether the poison cell is the only present cell.
func (b Board) IsTerminal() bool {
	if len(b.heights) == 0 || b.heights[0] != 1 {
		return false
	}
	return len(b.heights) == 1 || b.heights[1] == 0
}

// Legal returns nil if (row, col) may be bitten, otherwise an error wrapping
// ErrIllegalMove.
func (b Board) Legal(row, col int) error {
	switch {
	case row < 0 || col < 0 || row >= b.rows || col >= len(b.heights):
		return fmt.Errorf("%w: (%d,%d) is outside the %dx%d board", ErrIllegalMove, row, col, b.rows, len(b.heights))
	case row == 0 && col == 0:
		return fmt.Errorf("%w: the poison square (0,0) cannot be taken", ErrIllegalMove)
	case row >= b.heights[col]:
		return fmt.Errorf("%w: (%d,%d) is already removed", ErrIllegalMove, row, col)
	}
	return nil
}

// Apply bites (row, col): the cell and every cell with r >= row and c >= col
// are removed. The receiver is left untouched.
func (b Board) Apply(row, col int) (Board, error) {
	if err := b.Legal(row, col); err != nil {
		return Board{}, err
	}
	next := Board{rows: b.rows, heights: slices.Clone(b.heights)}
	for c := col; c < len(next.heights) && next.heights[c] > row; c++ {
		next.heights[c] = row
	}
	if err := next.validate(); err != nil {
		panic(fmt.Sprintf("chomp: staircase broken by bite (%d,%d): %v", row, col, err))
	}
	return next, nil
}

// Moves lists every legal move in row-major order.
func (b Board) Moves() []Move {
	var out []Move
	for r := 0; len(b.heights) > 0 && r < b.heights[0]; r++ {
		for c := 0; c < len(b.heights) && b.heights[c] > r; c++ {
			if r == 0 && c == 0 {
				continue
			}
			out = append(out, Move{Row: r, Col: c})
		}
	}
	return out
}

// Grid returns the row-major presence grid used on the wire.
func (b Board) Grid() [][]bool {
	grid := make([][]bool, b.rows)
	for r := range grid {
		grid[r] = make([]bool, len(b.heights))
		for c, h := range b.heights {
			grid[r][c] = r < h
		}
	}
	return grid
}

// Key returns the canonical shape encoding: the height profile without its
// trailing empty columns, as uvarints. Boards with the same present cells
// share a key regardless of move order or grid size.
func (b Board) Key() string {
	n := len(b.heights)
	for n > 0 && b.heights[n-1] == 0 {
		n--
	}
	buf := make([]byte, 0, n)
	for _, h := range b.heights[:n] {
		buf = binary.AppendUvarint(buf, uint64(h))
	}
	return string(buf)
}

// Equal reports whether two boards have the same dimensions and shape.
func (b Board) Equal(o Board) bool {
	return b.rows == o.rows && slices.Equal(b.heights, o.heights)
}

func (b Board) String() string {
	return fmt.Sprintf("%dx%d%v", b.rows, len(b.heights), b.heights)
}
