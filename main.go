// Command guess is a number guessing game.
//
//	guess                 play one round on stdin/stdout (same as `guess play`)
//	guess play [flags]    play with a fixed/seeded/daily secret, optionally recording to SQLite
//	guess serve [flags]   serve the game over HTTP
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robalobadob/guess/internal/config"
	"github.com/robalobadob/guess/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "guess:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. cfg is loaded before any subcommand runs.
func newRootCmd() *cobra.Command {
	var (
		cfg      config.Config
		logLevel string
	)

	play := playCmd(&cfg)
	root := &cobra.Command{
		Use:           "guess",
		Short:         "Guess the secret number",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				c.LogLevel = logLevel
			}
			cfg = c
			logging.Setup(cfg.LogLevel, cmd.ErrOrStderr(), true)
			return nil
		},
		RunE: play.RunE,
	}
	root.Flags().AddFlagSet(play.Flags())
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); default $LOG_LEVEL or info")

	root.AddCommand(play, serveCmd(&cfg))
	return root
}
