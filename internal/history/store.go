// Package history persists finished and in-progress games plus daily
// challenge results in SQLite.
package history

import (
	"context"
	"database/sql"
	"time"
)

// Game modes recorded in the games table.
const (
	ModeFree  = "free"
	ModeDaily = "daily"
	ModeCLI   = "cli"
)

// Game statuses.
const (
	StatusPlaying = "playing"
	StatusWon     = "won"
)

// Game is one row of the games table.
type Game struct {
	ID          string     `json:"id"`
	UserID      string     `json:"-"`
	AnonymousID string     `json:"-"`
	Mode        string     `json:"mode"`
	Status      string     `json:"status"`
	Attempts    int        `json:"attempts"`
	StartedAt   time.Time  `json:"startedAt"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
}

// DailyResult is a single player's win of the daily challenge.
type DailyResult struct {
	PlayerID  string `json:"playerId"`
	Date      string `json:"date"`
	Attempts  int    `json:"attempts"`
	ElapsedMs int    `json:"elapsedMs"`
}

// LBRow is returned for leaderboard queries.
type LBRow struct {
	PlayerID  string `json:"playerId"`
	Attempts  int    `json:"attempts"`
	ElapsedMs int    `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// CreateGame inserts a game owned by either g.UserID or g.AnonymousID.
func (s *Store) CreateGame(ctx context.Context, g Game) error {
	if g.Status == "" {
		g.Status = StatusPlaying
	}
	if g.Mode == "" {
		g.Mode = ModeFree
	}
	if g.StartedAt.IsZero() {
		g.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO games (id, user_id, anonymous_id, mode, status, attempts, started_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, nullable(g.UserID), nullable(g.AnonymousID), g.Mode, g.Status, g.Attempts,
		g.StartedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// RecordGuess bumps the attempt counter of a game.
func (s *Store) RecordGuess(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE games SET attempts = attempts + 1 WHERE id=?`, id)
	return err
}

// FinishGame marks a game won with its final attempt count.
func (s *Store) FinishGame(ctx context.Context, id string, attempts int, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE games SET status=?, attempts=?, finished_at=? WHERE id=?`,
		StatusWon, attempts, at.UTC().Format(time.RFC3339), id,
	)
	return err
}

// RecentGames lists a user's games, newest first.
func (s *Store) RecentGames(ctx context.Context, userID string, limit int) ([]Game, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, mode, status, attempts, started_at, COALESCE(finished_at, '')
        FROM games
        WHERE user_id=?
        ORDER BY started_at DESC, rowid DESC
        LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Game{}
	for rows.Next() {
		var (
			g                 Game
			started, finished string
		)
		if err := rows.Scan(&g.ID, &g.Mode, &g.Status, &g.Attempts, &started, &finished); err != nil {
			return nil, err
		}
		g.UserID = userID
		g.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished != "" {
			if ft, err := time.Parse(time.RFC3339, finished); err == nil {
				g.FinishedAt = &ft
			}
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ClaimAnonGames transfers anonymous games to a user account.
func (s *Store) ClaimAnonGames(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}

// AlreadyPlayed reports whether playerID has a daily result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE player_id=? AND date=?`,
		playerID, date,
	).Scan(&cnt); err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// InsertDailyResult stores a daily win. A second result for the same
// player and date is ignored.
func (s *Store) InsertDailyResult(ctx context.Context, r DailyResult) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO daily_results (player_id, date, attempts, elapsed_ms)
        VALUES (?, ?, ?, ?)`,
		r.PlayerID, r.Date, r.Attempts, r.ElapsedMs,
	)
	return err
}

// Leaderboard returns the best results for date: fewest attempts, then
// fastest, then earliest. Default limit is 20.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT player_id, attempts, elapsed_ms
        FROM daily_results
        WHERE date=?
        ORDER BY attempts ASC, elapsed_ms ASC, created_at ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Attempts, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
