package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/guess/internal/config"
	"github.com/robalobadob/guess/internal/daily"
	"github.com/robalobadob/guess/internal/db"
	"github.com/robalobadob/guess/internal/game"
	"github.com/robalobadob/guess/internal/store"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func testConfig() config.Config {
	return config.Config{
		AppEnv:         "test",
		ClientOrigin:   "http://localhost:5173",
		JWTSecret:      "test_secret",
		JWTExpiresDays: 1,
		CookieName:     "guess_token",
		DailySalt:      "salt",
		Min:            game.DefaultMin,
		Max:            game.DefaultMax,
	}
}

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestServer(t *testing.T, opts ...Option) *client {
	t.Helper()
	conn, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "guess.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	srv := New(testConfig(), store.NewMemoryStore(), conn, opts...)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return newClient(t, ts.URL)
}

func newClient(t *testing.T, base string) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: base, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func (c *client) newGame(secret int) string {
	c.t.Helper()
	var res newGameRes
	require.Equal(c.t, http.StatusOK, c.do(http.MethodPost, "/game/new", map[string]int{"secret": secret}, &res))
	require.NotEmpty(c.t, res.GameID)
	return res.GameID
}

func TestHealth(t *testing.T) {
	c := newTestServer(t)
	var body map[string]bool
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, &body))
	assert.True(t, body["ok"])
}

func TestGame_Scenario42(t *testing.T) {
	c := newTestServer(t)
	id := c.newGame(42)

	var res guessRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", map[string]any{"gameId": id, "guess": "10"}, &res))
	assert.Equal(t, game.OutcomeLess, res.Outcome)
	assert.Equal(t, game.FeedbackTooSmall, res.Feedback)
	assert.Equal(t, game.StateAwaitingInput, res.State)

	var bad map[string]string
	require.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/guess", map[string]any{"gameId": id, "guess": "abc"}, &bad))
	assert.Equal(t, "invalid_guess", bad["error"])
	assert.Equal(t, string(game.StateAwaitingInput), bad["state"])

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", map[string]any{"gameId": id, "guess": 90}, &res))
	assert.Equal(t, game.OutcomeGreater, res.Outcome)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", map[string]any{"gameId": id, "guess": " 42 "}, &res))
	assert.Equal(t, game.OutcomeEqual, res.Outcome)
	assert.Equal(t, game.StateWon, res.State)
	assert.Equal(t, 3, res.Attempts)

	var done map[string]string
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/game/guess", map[string]any{"gameId": id, "guess": "42"}, &done))
	assert.Equal(t, "game_finished", done["error"])
}

func TestGame_UnknownID(t *testing.T) {
	c := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/game/guess", map[string]any{"gameId": "nope", "guess": "1"}, nil))
}

func TestGame_SecretOutsideRange(t *testing.T) {
	c := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/new", map[string]int{"secret": 0}, nil))
}

func TestGame_DefaultSourceUsed(t *testing.T) {
	c := newTestServer(t, WithSecretSource(game.FixedSource(7)))
	var res newGameRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", nil, &res))

	var g guessRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", map[string]any{"gameId": res.GameID, "guess": 7}, &g))
	assert.Equal(t, game.StateWon, g.State)
}

func TestAuth_SignupPlayStats(t *testing.T) {
	c := newTestServer(t)

	// anonymous game, later claimed on signup
	anonGame := c.newGame(5)
	var g guessRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", map[string]any{"gameId": anonGame, "guess": 5}, &g))

	creds := map[string]string{"username": "dana", "password": "password123"}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/signup", creds, nil))
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/auth/signup", creds, nil))

	id := c.newGame(50)
	for _, guess := range []int{25, 75, 50} {
		require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", map[string]any{"gameId": id, "guess": guess}, &g))
	}
	assert.Equal(t, game.StateWon, g.State)

	var stats map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/stats/me", nil, &stats))
	assert.EqualValues(t, 1, stats["gamesWon"])
	assert.EqualValues(t, 3, stats["bestAttempts"])

	var mine []map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/games/mine", nil, &mine))
	require.Len(t, mine, 2)
	ids := []any{mine[0]["id"], mine[1]["id"]}
	assert.ElementsMatch(t, []any{anonGame, id}, ids)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/auth/me", nil, nil))

	var me authUser
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/login", creds, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/auth/me", nil, &me))
	assert.Equal(t, "dana", me.Username)
}

func TestAuth_BadLogin(t *testing.T) {
	c := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized,
		c.do(http.MethodPost, "/auth/login", map[string]string{"username": "ghost", "password": "password123"}, nil))
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/stats/me", nil, nil))
}

func TestDaily_OncePerDay(t *testing.T) {
	c := newTestServer(t)
	secret := daily.SecretFor(testNow, "salt", game.DefaultMin, game.DefaultMax)

	var n dailyNewRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &n))
	assert.Equal(t, "2026-10-19", n.Date)
	assert.False(t, n.Played)

	var again dailyNewRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &again))
	assert.Equal(t, n.GameID, again.GameID, "session is reused")

	wrong := secret + 1
	if wrong >= game.DefaultMax {
		wrong = secret - 1
	}
	var res dailyGuessRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/guess", map[string]any{"gameId": n.GameID, "guess": wrong}, &res))
	assert.Equal(t, string(game.StateAwaitingInput), res.State)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/guess", map[string]any{"gameId": n.GameID, "guess": secret}, &res))
	assert.Equal(t, string(game.StateWon), res.State)
	assert.Equal(t, 2, res.Attempts)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/guess", map[string]any{"gameId": n.GameID, "guess": secret}, &res))
	assert.Equal(t, "locked", res.State)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &again))
	assert.True(t, again.Played)

	var lb lbRes
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/daily/leaderboard", nil, &lb))
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 2, lb.Top[0].Attempts)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/daily/leaderboard?date=yesterday", nil, nil))
}

func TestDaily_GuessWithoutSession(t *testing.T) {
	c := newTestServer(t)
	assert.Equal(t, http.StatusConflict,
		c.do(http.MethodPost, "/daily/guess", map[string]any{"gameId": "x", "guess": 1}, nil))
}

func TestRawGuess(t *testing.T) {
	assert.Equal(t, "42", rawGuess(json.RawMessage(`"42"`)))
	assert.Equal(t, "42", rawGuess(json.RawMessage(`42`)))
	assert.Equal(t, "", rawGuess(nil))
}
