// internal/game/engine.go
//
// Core game engine for a single number guessing session.
// Responsibilities:
//   - Create new games with a secret drawn once from a SecretSource.
//   - Parse raw input lines into guesses (trimmed, base-10, signed).
//   - Compare guesses against the secret and track the win transition.
//
// Notes:
//   - Malformed input never advances the session: no attempt is counted
//     and the state stays awaiting_input.
//   - Guesses outside [Min, Max) are still compared.
package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// New constructs a game whose secret is drawn from src in [min, max).
func New(src SecretSource, min, max int) (*Game, error) {
	if min >= max {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, min, max)
	}
	secret, err := src.IntRange(min, max)
	if err != nil {
		return nil, fmt.Errorf("draw secret: %w", err)
	}
	return &Game{
		ID:      uuid.NewString(),
		Secret:  secret,
		Min:     min,
		Max:     max,
		Guesses: []int{},
	}, nil
}

// ApplyGuess parses raw and compares it against the secret.
// Returns the outcome, the state after the guess, or an error.
//
// State transitions:
//   - parse failure → ErrInvalidGuess, state unchanged (awaiting_input).
//   - less/greater  → awaiting_input.
//   - equal         → won (terminal); further guesses return ErrFinished.
func (g *Game) ApplyGuess(raw string) (Outcome, State, error) {
	if g.Won {
		return "", g.State(), ErrFinished
	}
	n, err := ParseGuess(raw)
	if err != nil {
		return "", g.State(), err
	}

	g.Attempts++
	g.Guesses = append(g.Guesses, n)

	out := Compare(n, g.Secret)
	if out == OutcomeEqual {
		g.Won = true
	}
	return out, g.State(), nil
}

// State reports the session state between guesses.
// Evaluating only exists inside ApplyGuess, so it is never observed here.
func (g *Game) State() State {
	if g.Won {
		return StateWon
	}
	return StateAwaitingInput
}

// Compare reports how guess relates to secret.
func Compare(guess, secret int) Outcome {
	switch {
	case guess < secret:
		return OutcomeLess
	case guess > secret:
		return OutcomeGreater
	default:
		return OutcomeEqual
	}
}

// ParseGuess trims surrounding whitespace and parses a base-10 integer.
func ParseGuess(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrInvalidGuess
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGuess, s)
	}
	return n, nil
}
