package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/talent-search/internal/config"
	"github.com/jonathan/talent-search/internal/maintenance"
	"github.com/jonathan/talent-search/internal/search"
	"github.com/jonathan/talent-search/internal/server"
	"github.com/jonathan/talent-search/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the search API server",
	Long: `Start an HTTP server exposing unified search, typeahead suggestions and faceted
job and candidate search. When REFRESH_INTERVAL is set, a background job keeps the
normalized search columns current.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return withService(ctx, func(cfg *config.Config, b *backend, svc *search.Service) error {
		jwtConfig, err := config.LoadJWTConfig()
		if err != nil {
			return fmt.Errorf("failed to load JWT config: %w", err)
		}

		rateConfig, err := ratelimit.FromEnv(os.Getenv)
		if err != nil {
			return err
		}

		port := cfg.Port
		if servePort > 0 {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Port:      port,
			JWT:       jwtConfig,
			RateLimit: &rateConfig,
		}, svc, b)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		interval, err := cfg.RefreshEvery()
		if err != nil {
			return err
		}
		if interval > 0 {
			scheduler, err := maintenance.New(b, interval)
			if err != nil {
				return err
			}
			if err := scheduler.Start(ctx); err != nil {
				return err
			}
			defer scheduler.Stop()
		}

		return srv.Start()
	})
}
