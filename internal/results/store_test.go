package results

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shak2000/ChompSolver/internal/db"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "chomp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(conn))
	return NewStore(conn)
}

func TestRecordAndSummary(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, st.Record(ctx, Result{GameID: "g1", SessionID: "s", Rows: 2, Cols: 2, Winner: 1, Moves: 3, FinishedAt: base}))
	require.NoError(t, st.Record(ctx, Result{GameID: "g2", SessionID: "s", Rows: 3, Cols: 4, Winner: 2, Moves: 6, FinishedAt: base.Add(time.Minute)}))
	require.NoError(t, st.Record(ctx, Result{GameID: "g3", SessionID: "t", Rows: 1, Cols: 2, Winner: 1, Moves: 1, FinishedAt: base.Add(2 * time.Minute)}))

	sum, err := st.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Games: 3, Player1Wins: 2, Player2Wins: 1}, sum)
}

func TestRecordOverwritesSameGame(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, st.Record(ctx, Result{GameID: "g1", SessionID: "s", Rows: 2, Cols: 2, Winner: 1, Moves: 3, FinishedAt: now}))
	require.NoError(t, st.Record(ctx, Result{GameID: "g1", SessionID: "s", Rows: 2, Cols: 2, Winner: 2, Moves: 5, FinishedAt: now.Add(time.Second)}))

	sum, err := st.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Games: 1, Player1Wins: 0, Player2Wins: 1}, sum)

	recent, err := st.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 5, recent[0].Moves)
}

func TestRecentNewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, st.Record(ctx, Result{
			GameID: id, SessionID: "s", Rows: 2, Cols: 2, Winner: 1, Moves: 1,
			FinishedAt: base.Add(time.Duration(i) * 500 * time.Millisecond),
		}))
	}

	recent, err := st.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].GameID)
	assert.Equal(t, "b", recent[1].GameID)
	assert.True(t, recent[0].FinishedAt.Equal(base.Add(time.Second)))
}

func TestEmptySummary(t *testing.T) {
	st := openTestStore(t)
	sum, err := st.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
}
