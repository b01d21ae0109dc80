// internal/httpserver/server.go
//
// HTTP server wiring for the guess backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token
//     is present; routes still run for guests, who get an anonymous cookie.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guess/internal/config"
	"github.com/robalobadob/guess/internal/game"
	"github.com/robalobadob/guess/internal/history"
	"github.com/robalobadob/guess/internal/store"
	"github.com/robalobadob/guess/internal/users"
)

// Server bundles router, active game store, and persistence.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	store   store.Store
	history *history.Store
	users   *users.Store
	src     game.SecretSource
	now     func() time.Time

	mu sync.Mutex // serialises guesses on free-play games
}

// Option customises a Server.
type Option func(*Server)

// WithSecretSource overrides the source for free-play secrets.
func WithSecretSource(src game.SecretSource) Option {
	return func(s *Server) { s.src = src }
}

// WithClock overrides time.Now (daily date selection, timestamps).
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, db *sql.DB, opts ...Option) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		store:   st,
		history: history.NewStore(db),
		users:   users.NewStore(db),
		src:     game.CryptoSource{},
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "guess",
			"endpoints": []string{"/health", "POST /game/new", "POST /game/guess", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/guess", s.handleGuess)

	s.mountDaily(s.r.With(s.withOptionalAuth()))
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
