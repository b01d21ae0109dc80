// Package users manages player accounts and their aggregate stats.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken = errors.New("username taken")
	ErrNotFound      = errors.New("user not found")
)

// User matches the users table shape.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	GamesWon      int       `json:"gamesWon"`
	TotalAttempts int       `json:"totalAttempts"`
	BestAttempts  int       `json:"bestAttempts"`
}

// AverageAttempts is TotalAttempts / GamesWon, or 0 before the first win.
func (u *User) AverageAttempts() float64 {
	if u.GamesWon == 0 {
		return 0
	}
	return float64(u.TotalAttempts) / float64(u.GamesWon)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Create validates input, checks uniqueness, hashes the password and inserts a user.
func (s *Store) Create(ctx context.Context, username, pw string) (*User, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	if _, err := s.ByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	h, err := hashPassword(pw)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: h,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339),
	); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// ByUsername looks a user up case-insensitively.
func (s *Store) ByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, username, password_hash, created_at, games_won, total_attempts, best_attempts
        FROM users WHERE lower(username)=lower(?)`, normalizeUsername(username))
	return scanUser(row)
}

func (s *Store) ByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, username, password_hash, created_at, games_won, total_attempts, best_attempts
        FROM users WHERE id=?`, id)
	return scanUser(row)
}

// Authenticate returns the user when the password matches.
func (s *Store) Authenticate(ctx context.Context, username, pw string) (*User, error) {
	u, err := s.ByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, pw) {
		return nil, ErrNotFound
	}
	return u, nil
}

// BumpStats records a win that took attempts guesses.
func (s *Store) BumpStats(ctx context.Context, id string, attempts int) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE users SET
            games_won      = games_won + 1,
            total_attempts = total_attempts + ?,
            best_attempts  = CASE WHEN best_attempts = 0 OR ? < best_attempts THEN ? ELSE best_attempts END
        WHERE id=?`, attempts, attempts, attempts, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesWon, &u.TotalAttempts, &u.BestAttempts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword is a bcrypt verifier.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8–100 chars")
	}
	return nil
}
