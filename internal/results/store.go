// internal/results/store.go
//
// Finished-game log backed by SQLite.
//
// A game is recorded when it reaches its end. Undoing the final move and
// finishing differently overwrites the row for that game, so each game ID
// holds its latest outcome.

package results

import (
	"context"
	"database/sql"
	"time"
)

// timeLayout has a fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

type Result struct {
	GameID     string    `json:"gameId"`
	SessionID  string    `json:"-"`
	Rows       int       `json:"rows"`
	Cols       int       `json:"cols"`
	Winner     int       `json:"winner"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finishedAt"`
}

type Summary struct {
	Games       int `json:"games"`
	Player1Wins int `json:"player1Wins"`
	Player2Wins int `json:"player2Wins"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record upserts the outcome of a game.
func (s *Store) Record(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game_results (game_id, session_id, board_rows, board_cols, winner, moves, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			winner = excluded.winner,
			moves = excluded.moves,
			finished_at = excluded.finished_at`,
		r.GameID, r.SessionID, r.Rows, r.Cols, r.Winner, r.Moves,
		r.FinishedAt.UTC().Format(timeLayout),
	)
	return err
}

// Summary counts recorded games and wins per player.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	var out Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1),
		       COALESCE(SUM(CASE WHEN winner = 1 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN winner = 2 THEN 1 ELSE 0 END), 0)
		FROM game_results`,
	).Scan(&out.Games, &out.Player1Wins, &out.Player2Wins)
	return out, err
}

// Recent returns the latest finished games, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, session_id, board_rows, board_cols, winner, moves, finished_at
		FROM game_results
		ORDER BY finished_at DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var r Result
		var finished string
		if err := rows.Scan(&r.GameID, &r.SessionID, &r.Rows, &r.Cols, &r.Winner, &r.Moves, &finished); err != nil {
			return nil, err
		}
		r.FinishedAt, _ = time.Parse(timeLayout, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}
