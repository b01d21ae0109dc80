// internal/game/types.go
//
// Core type definitions for the number guessing engine.
// Defines:
//   - Outcome: result of comparing a guess with the secret (less/greater/equal).
//   - State: where a session is in its lifecycle.
//   - Game: state for a single in-progress or won session.

package game

import "errors"

// Outcome is the three-way comparison of a guess against the secret.
//   - "less":    guess is smaller than the secret ("too small").
//   - "greater": guess is bigger than the secret ("too big").
//   - "equal":   guess matches; the session is won.
type Outcome string

const (
	OutcomeLess    Outcome = "less"
	OutcomeGreater Outcome = "greater"
	OutcomeEqual   Outcome = "equal"
)

// Feedback lines shown to players for each outcome.
const (
	FeedbackTooSmall = "Too small!"
	FeedbackTooBig   = "Too big!"
	FeedbackWin      = "You win!"
)

// Feedback returns the player-facing line for o.
func (o Outcome) Feedback() string {
	switch o {
	case OutcomeLess:
		return FeedbackTooSmall
	case OutcomeGreater:
		return FeedbackTooBig
	case OutcomeEqual:
		return FeedbackWin
	}
	return ""
}

// State is a session's position in the AwaitingInput → Evaluating → Won machine.
type State string

const (
	StateAwaitingInput State = "awaiting_input"
	StateEvaluating    State = "evaluating"
	StateWon           State = "won"
)

// Default secret range: [DefaultMin, DefaultMax).
const (
	DefaultMin = 1
	DefaultMax = 101
)

var (
	// ErrInvalidGuess is returned when raw input does not parse as an integer.
	ErrInvalidGuess = errors.New("invalid guess")
	// ErrFinished is returned when a guess is applied to a won game.
	ErrFinished = errors.New("game finished")
	// ErrInvalidRange is returned when min >= max.
	ErrInvalidRange = errors.New("invalid range")
)

// Game holds the state of a single guessing session.
type Game struct {
	ID       string // Unique game identifier (uuid).
	Secret   int    // Target number; never changes after New.
	Min      int    // Inclusive lower bound of the secret.
	Max      int    // Exclusive upper bound of the secret.
	Attempts int    // Number of successfully parsed guesses.
	Guesses  []int  // Parsed guesses in order.
	Won      bool   // True once a guess matched the secret.
}
