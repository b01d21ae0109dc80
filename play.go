package main

import (
	"context"
	"fmt"
	"io"
	"os/user"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/guess/internal/config"
	"github.com/robalobadob/guess/internal/console"
	"github.com/robalobadob/guess/internal/daily"
	"github.com/robalobadob/guess/internal/db"
	"github.com/robalobadob/guess/internal/game"
	"github.com/robalobadob/guess/internal/history"
)

type playFlags struct {
	seed           uint64
	secret         int
	daily          bool
	dbPath         string
	explainInvalid bool
}

func playCmd(cfg *config.Config) *cobra.Command {
	var f playFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one round reading guesses from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, mode, err := secretSource(cmd, *cfg, f, time.Now())
			if err != nil {
				return err
			}
			var rec console.Recorder
			if f.dbPath != "" {
				conn, err := db.OpenAndMigrate(f.dbPath)
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer conn.Close()
				rec = &historyRecorder{store: history.NewStore(conn), mode: mode, player: localPlayer(), now: time.Now}
			}
			_, err = runPlay(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), src, console.Options{
				Min:            cfg.Min,
				Max:            cfg.Max,
				ExplainInvalid: f.explainInvalid,
				Recorder:       rec,
				Logger:         &log.Logger,
			})
			return err
		},
	}
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed a deterministic secret")
	cmd.Flags().IntVar(&f.secret, "secret", 0, "fix the secret (practice)")
	cmd.Flags().BoolVar(&f.daily, "daily", false, "play today's daily challenge secret")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "record the result to this SQLite database")
	cmd.Flags().BoolVar(&f.explainInvalid, "explain-invalid", false, "tell the player when input is not a number")
	cmd.MarkFlagsMutuallyExclusive("seed", "secret", "daily")
	return cmd
}

// secretSource picks the source from flags; mode names it in history.
func secretSource(cmd *cobra.Command, cfg config.Config, f playFlags, now time.Time) (game.SecretSource, string, error) {
	switch {
	case cmd.Flags().Changed("secret"):
		if f.secret < cfg.Min || f.secret >= cfg.Max {
			return nil, "", fmt.Errorf("--secret %d outside [%d, %d)", f.secret, cfg.Min, cfg.Max)
		}
		return game.FixedSource(f.secret), history.ModeCLI, nil
	case cmd.Flags().Changed("seed"):
		return game.NewSeededSource(f.seed), history.ModeCLI, nil
	case f.daily:
		return daily.Source{Date: now, Salt: cfg.DailySalt}, history.ModeDaily, nil
	default:
		return game.CryptoSource{}, history.ModeCLI, nil
	}
}

// runPlay runs a single console session.
func runPlay(ctx context.Context, in io.Reader, out io.Writer, src game.SecretSource, opts console.Options) (*console.Result, error) {
	return console.NewLoop(src, console.NewLineReader(in), out, opts).Run(ctx)
}

// historyRecorder stores CLI wins in the games table (and daily_results for
// daily rounds) under a local player id.
type historyRecorder struct {
	store  *history.Store
	mode   string
	player string
	now    func() time.Time
}

func (h *historyRecorder) Record(ctx context.Context, r console.Result) error {
	finished := h.now()
	started := finished.Add(-r.Elapsed)
	if err := h.store.CreateGame(ctx, history.Game{
		ID:          r.GameID,
		AnonymousID: h.player,
		Mode:        h.mode,
		StartedAt:   started,
	}); err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	if err := h.store.FinishGame(ctx, r.GameID, r.Attempts, finished); err != nil {
		return fmt.Errorf("finish game: %w", err)
	}
	if h.mode != history.ModeDaily {
		return nil
	}
	return h.store.InsertDailyResult(ctx, history.DailyResult{
		PlayerID:  h.player,
		Date:      daily.DateKey(started),
		Attempts:  r.Attempts,
		ElapsedMs: int(r.Elapsed.Milliseconds()),
	})
}

func localPlayer() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return "cli:" + u.Username
	}
	return "cli:local"
}
