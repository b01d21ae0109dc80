package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/guess/internal/config"
	"github.com/robalobadob/guess/internal/db"
	"github.com/robalobadob/guess/internal/httpserver"
	"github.com/robalobadob/guess/internal/store"
)

func serveCmd(cfg *config.Config) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.Port = port
			}
			conn, err := db.OpenAndMigrate(cfg.DBPath)
			if err != nil {
				return err
			}
			defer conn.Close()

			srv := httpserver.New(*cfg, store.NewMemoryStore(), conn)
			log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("starting guess server")
			return srv.Start(":" + cfg.Port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default $PORT or 5175)")
	return cmd
}
