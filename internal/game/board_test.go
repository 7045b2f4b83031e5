package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staircases enumerates every valid board on a rows × cols grid.
func staircases(t *testing.T, rows, cols int) []Board {
	t.Helper()
	var out []Board
	h := make([]int, cols)
	var rec func(c, max int)
	rec = func(c, max int) {
		if c == cols {
			if h[0] == 0 {
				return
			}
			b, err := FromHeights(rows, h)
			require.NoError(t, err)
			out = append(out, b)
			return
		}
		for v := 0; v <= max; v++ {
			h[c] = v
			rec(c+1, v)
		}
	}
	rec(0, rows)
	return out
}

func isDownSet(grid [][]bool) bool {
	for r := range grid {
		for c := range grid[r] {
			if !grid[r][c] {
				continue
			}
			for r2 := 0; r2 <= r; r2++ {
				for c2 := 0; c2 <= c; c2++ {
					if !grid[r2][c2] {
						return false
					}
				}
			}
		}
	}
	return true
}

func TestNewBoard(t *testing.T) {
	b, err := NewBoard(3, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Rows())
	assert.Equal(t, 4, b.Cols())
	assert.Equal(t, 12, b.Remaining())
	assert.Equal(t, []int{3, 3, 3, 3}, b.Heights())
	assert.False(t, b.IsTerminal())

	for _, dims := range [][2]int{{0, 3}, {3, 0}, {-1, 2}} {
		_, err := NewBoard(dims[0], dims[1])
		assert.ErrorIs(t, err, ErrInvalidDimensions, "dims %v", dims)
	}
}

func TestApplyRemovesDominatedCells(t *testing.T) {
	b, _ := NewBoard(3, 4)
	next, err := b.Apply(1, 2)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 3, 1, 1}, next.Heights())
	assert.Equal(t, [][]bool{
		{true, true, true, true},
		{true, true, false, false},
		{true, true, false, false},
	}, next.Grid())
	// receiver untouched
	assert.Equal(t, []int{3, 3, 3, 3}, b.Heights())
}

func TestApplyRejectsIllegalTargets(t *testing.T) {
	b, _ := NewBoard(2, 3)
	b, err := b.Apply(1, 1)
	require.NoError(t, err)

	cases := map[string][2]int{
		"poison":          {0, 0},
		"removed":         {1, 2},
		"row too large":   {2, 0},
		"col too large":   {0, 3},
		"negative row":    {-1, 1},
		"negative column": {0, -1},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := b.Apply(m[0], m[1])
			assert.ErrorIs(t, err, ErrIllegalMove)
		})
	}
}

func TestApplyPreservesStaircase(t *testing.T) {
	for rows := 1; rows <= 4; rows++ {
		for cols := 1; cols <= 4; cols++ {
			for _, b := range staircases(t, rows, cols) {
				for _, m := range b.Moves() {
					next, err := b.Apply(m.Row, m.Col)
					require.NoError(t, err)
					require.True(t, isDownSet(next.Grid()), "%v bite %v gave %v", b, m, next)
					assert.Less(t, next.Remaining(), b.Remaining())
				}
			}
		}
	}
}

func TestMovesRowMajor(t *testing.T) {
	b, _ := FromHeights(3, []int{3, 2, 1})
	assert.Equal(t, []Move{
		{0, 1}, {0, 2},
		{1, 0}, {1, 1},
		{2, 0},
	}, b.Moves())

	single, _ := NewBoard(1, 1)
	assert.Empty(t, single.Moves())
}

func TestIsTerminal(t *testing.T) {
	for rows := 1; rows <= 4; rows++ {
		for cols := 1; cols <= 4; cols++ {
			for _, b := range staircases(t, rows, cols) {
				want := b.Remaining() == 1 && b.Present(0, 0)
				assert.Equal(t, want, b.IsTerminal(), "%v", b)
				assert.Equal(t, want, len(b.Moves()) == 0, "%v", b)
			}
		}
	}
}

func TestKeyIgnoresMoveOrder(t *testing.T) {
	start, _ := NewBoard(4, 4)

	a, _ := start.Apply(2, 1)
	a, _ = a.Apply(1, 3)

	b, _ := start.Apply(1, 3)
	b, _ = b.Apply(2, 1)

	require.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
}

func TestKeyIgnoresGridSize(t *testing.T) {
	small, _ := FromHeights(2, []int{2, 1})
	wide, _ := FromHeights(2, []int{2, 1, 0, 0})
	tall, _ := FromHeights(5, []int{2, 1, 0})
	assert.Equal(t, small.Key(), wide.Key())
	assert.Equal(t, small.Key(), tall.Key())

	other, _ := FromHeights(2, []int{1, 1})
	assert.NotEqual(t, small.Key(), other.Key())
}

func TestFromGrid(t *testing.T) {
	b, err := FromGrid([][]bool{
		{true, true, true},
		{true, false, false},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 1}, b.Heights())

	_, err = FromGrid([][]bool{
		{true, false},
		{true, true},
	})
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = FromGrid([][]bool{{false, false}})
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestFromHeightsRejectsNonStaircase(t *testing.T) {
	_, err := FromHeights(3, []int{1, 2})
	assert.ErrorIs(t, err, ErrInvalidDimensions)
	_, err = FromHeights(3, []int{4, 2})
	assert.ErrorIs(t, err, ErrInvalidDimensions)
	_, err = FromHeights(3, []int{0, 0})
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}
