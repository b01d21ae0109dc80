package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guess/internal/users"
)

const anonCookieName = "guess_anon"

// credentials is the body of signup and login requests.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ctxUserKey struct{}

func currentUser(r *http.Request) *authUser {
	u, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return u
}

// mountAuthRoutes registers /auth/*, /stats/me and /games/mine.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	})
	s.r.With(s.requireAuth()).Get("/stats/me", s.handleStats)
	s.r.With(s.requireAuth()).Get("/games/mine", s.handleMyGames)
}

// handleSignup creates a user, sets the auth cookie and claims anonymous history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.users.Create(r.Context(), body.Username, body.Password)
	if errors.Is(err, users.ErrUsernameTaken) {
		writeError(w, http.StatusConflict, "Username taken")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	s.claimAnon(r, u.ID)
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates, sets the auth cookie and claims anonymous history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.users.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	s.claimAnon(r, u.ID)
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setCookie(w, s.cfg.CookieName, "", -1)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.ByID(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":              u.ID,
		"gamesWon":        u.GamesWon,
		"bestAttempts":    u.BestAttempts,
		"averageAttempts": u.AverageAttempts(),
	})
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.history.RecentGames(r.Context(), currentUser(r).ID, 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// issueToken signs a JWT and writes the auth cookie. It reports false after
// writing an error response.
func (s *Server) issueToken(w http.ResponseWriter, u *users.User) bool {
	tok, _, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	w.Header().Set("X-Auth-Token", tok)
	s.setCookie(w, s.cfg.CookieName, tok, int(s.cfg.TokenTTL().Seconds()))
	return true
}

// claimAnon attaches games played under the anonymous cookie to userID.
func (s *Server) claimAnon(r *http.Request, userID string) {
	c, err := r.Cookie(anonCookieName)
	if err != nil || c.Value == "" {
		return
	}
	if err := s.history.ClaimAnonGames(r.Context(), c.Value, userID); err != nil {
		log.Warn().Err(err).Msg("claim anon games")
	}
}

// ensureAnonID returns the anonymous cookie value, setting a new one if absent.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	s.setCookie(w, anonCookieName, id, int((180 * 24 * time.Hour).Seconds()))
	return id
}

// playerID is the signed-in user's ID or the anonymous cookie.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return s.ensureAnonID(w, r)
}

// setCookie writes an HttpOnly cookie; maxAge < 0 deletes it.
func (s *Server) setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	secure := s.cfg.Production()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		MaxAge:   maxAge,
	})
}

// ------------------------------ JWT ----------------------------------------

// signJWT creates an HS256 JWT with id/username and the configured expiry.
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.TokenTTL())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseJWT verifies tokenStr and returns the user it names.
func (s *Server) parseJWT(ctx context.Context, tokenStr string) (*authUser, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, errors.New("invalid token")
	}
	// the user must still exist
	u, err := s.users.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &authUser{ID: u.ID, Username: u.Username}, nil
}

// bearerOrCookie extracts a bearer token from the Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// withOptionalAuth decorates requests with user context if a valid JWT is
// present. It never rejects.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := s.bearerOrCookie(r); tok != "" {
				if u, err := s.parseJWT(r.Context(), tok); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := s.bearerOrCookie(r)
			if tok == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			u, err := s.parseJWT(r.Context(), tok)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
		})
	}
}
