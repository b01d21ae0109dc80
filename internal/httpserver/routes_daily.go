// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)
//
// Each player can win once per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play and persisted to DB on win.
// The secret is derived from date + salt, so everyone chases the same number.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guess/internal/daily"
	"github.com/robalobadob/guess/internal/game"
	"github.com/robalobadob/guess/internal/history"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	sessions map[string]*dailySession // active sessions keyed by playerID|date
	mu       sync.Mutex               // guards sessions and their games
}

// dailySession holds transient state for an in-progress daily game.
type dailySession struct {
	Game  *game.Game
	Date  string
	Start time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{srv: s, sessions: make(map[string]*dailySession)}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

func (d *dailyServer) today() (time.Time, string) {
	now := d.srv.now().UTC()
	return now, daily.DateKey(now)
}

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleNew creates or reuses today's session.
//   - Player already has a DB result for today → Played=true.
//   - Otherwise create/reuse an in-memory session and return its GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	pid := d.srv.playerID(w, r)
	now, date := d.today()

	if played, err := d.srv.history.AlreadyPlayed(r.Context(), pid, date); err == nil && played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := pid + "|" + date
	d.mu.Lock()
	if sess, ok := d.sessions[key]; ok {
		d.mu.Unlock()
		writeJSON(w, http.StatusOK, dailyNewRes{GameID: sess.Game.ID, Date: date})
		return
	}
	g, err := game.New(daily.Source{Date: now, Salt: d.srv.cfg.DailySalt}, d.srv.cfg.Min, d.srv.cfg.Max)
	if err != nil {
		d.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "new_failed")
		return
	}
	d.sessions[key] = &dailySession{Game: g, Date: date, Start: now}
	d.mu.Unlock()

	row := history.Game{ID: g.ID, Mode: history.ModeDaily, StartedAt: now}
	if me := currentUser(r); me != nil {
		row.UserID = me.ID
	} else {
		row.AnonymousID = pid
	}
	if err := d.srv.history.CreateGame(r.Context(), row); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert daily game row")
	}

	writeJSON(w, http.StatusOK, dailyNewRes{GameID: g.ID, Date: date})
}

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string          `json:"gameId"`
	Guess  json.RawMessage `json:"guess"`
}

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	Outcome  game.Outcome `json:"outcome,omitempty"`
	Feedback string       `json:"feedback,omitempty"`
	State    string       `json:"state"` // awaiting_input | won | locked
	Attempts int          `json:"attempts"`
}

// handleGuess applies a guess to today's session and persists the result on a win.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	pid := d.srv.playerID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.GameID == "" {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	_, date := d.today()

	key := pid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	sess, ok := d.sessions[key]
	if !ok || sess.Game.ID != p.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	g := sess.Game
	if g.Won {
		writeJSON(w, http.StatusOK, dailyGuessRes{State: "locked", Attempts: g.Attempts})
		return
	}

	out, state, ok := d.srv.applyGuess(w, g, rawGuess(p.Guess))
	if !ok {
		return
	}
	if err := d.srv.history.RecordGuess(r.Context(), g.ID); err != nil {
		log.Warn().Err(err).Msg("record daily guess")
	}
	if state == game.StateWon {
		elapsed := int(d.srv.now().Sub(sess.Start).Milliseconds())
		if err := d.srv.history.InsertDailyResult(r.Context(), history.DailyResult{
			PlayerID: pid, Date: date, Attempts: g.Attempts, ElapsedMs: elapsed,
		}); err != nil {
			log.Warn().Err(err).Str("player", pid).Msg("insert daily result")
		}
		d.srv.finish(r, g)
	}

	writeJSON(w, http.StatusOK, dailyGuessRes{Outcome: out, Feedback: out.Feedback(), State: string(state), Attempts: g.Attempts})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string          `json:"date"`
	Top  []history.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for ?date= (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		_, date = d.today()
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := d.srv.history.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
