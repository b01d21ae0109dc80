package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guess/internal/game"
	"github.com/robalobadob/guess/internal/history"
	"github.com/robalobadob/guess/internal/store"
)

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Secret *int `json:"secret"` // fixed secret, honoured outside production (testing)
}
type newGameRes struct {
	GameID string `json:"gameId"`
	Min    int    `json:"min"`
	Max    int    `json:"max"`
}

// handleNewGame creates an in-memory game and a history row owned by the
// signed-in user or the anonymous cookie.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	src := s.src
	if req.Secret != nil && !s.cfg.Production() {
		src = game.FixedSource(*req.Secret)
	}
	g, err := game.New(src, s.cfg.Min, s.cfg.Max)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_secret")
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	row := history.Game{ID: g.ID, Mode: history.ModeFree, StartedAt: s.now()}
	if me := currentUser(r); me != nil {
		row.UserID = me.ID
	} else {
		row.AnonymousID = s.ensureAnonID(w, r)
	}
	if err := s.history.CreateGame(r.Context(), row); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Min: g.Min, Max: g.Max})
}

// guessReq/Res payloads for POST /game/guess.
// Guess accepts either a JSON string ("42") or number (42).
type guessReq struct {
	GameID string          `json:"gameId"`
	Guess  json.RawMessage `json:"guess"`
}
type guessRes struct {
	Outcome  game.Outcome `json:"outcome"`
	Feedback string       `json:"feedback"`
	State    game.State   `json:"state"`
	Attempts int          `json:"attempts"`
}

// handleGuess applies a guess to an in-memory game and records progress.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error")
		return
	}

	s.mu.Lock()
	out, state, ok := s.applyGuess(w, g, rawGuess(req.Guess))
	attempts := g.Attempts
	if ok {
		err = s.store.Save(r.Context(), g)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	// history is best effort
	if err := s.history.RecordGuess(r.Context(), g.ID); err != nil {
		log.Warn().Err(err).Msg("record guess")
	}
	if state == game.StateWon {
		s.finish(r, g)
	}

	writeJSON(w, http.StatusOK, guessRes{Outcome: out, Feedback: out.Feedback(), State: state, Attempts: attempts})
}

// applyGuess maps engine errors onto HTTP responses. ok is false when a
// response has already been written.
func (s *Server) applyGuess(w http.ResponseWriter, g *game.Game, raw string) (game.Outcome, game.State, bool) {
	out, state, err := g.ApplyGuess(raw)
	switch {
	case errors.Is(err, game.ErrInvalidGuess):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_guess", "state": state})
		return "", state, false
	case errors.Is(err, game.ErrFinished):
		writeJSON(w, http.StatusConflict, map[string]any{"error": "game_finished", "state": state})
		return "", state, false
	case err != nil:
		writeError(w, http.StatusInternalServerError, "guess_failed")
		return "", state, false
	}
	return out, state, true
}

// finish closes the history row and bumps the signed-in user's stats.
func (s *Server) finish(r *http.Request, g *game.Game) {
	ctx := r.Context()
	if err := s.history.FinishGame(ctx, g.ID, g.Attempts, s.now()); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("finish game")
	}
	if me := currentUser(r); me != nil {
		if err := s.users.BumpStats(ctx, me.ID, g.Attempts); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
		}
	}
}

// rawGuess turns a JSON string or number into the raw line the engine parses.
func rawGuess(m json.RawMessage) string {
	var s string
	if err := json.Unmarshal(m, &s); err == nil {
		return s
	}
	return string(m)
}
