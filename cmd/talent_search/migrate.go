package main

import (
	"fmt"

	"github.com/jonathan/talent-search/internal/config"
	"github.com/jonathan/talent-search/internal/search"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Create or upgrade the jobs and candidates tables, search indexes and generated columns.`,
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	return withService(cmd.Context(), func(_ *config.Config, b *backend, _ *search.Service) error {
		out := cmd.OutOrStdout()
		if b.pg == nil {
			fmt.Fprintf(out, "%s backend has no schema to migrate\n", b.kind)
			return nil
		}

		applied, err := b.pg.Migrate(cmd.Context())
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		if len(applied) == 0 {
			fmt.Fprintln(out, "Database is up to date")
			return nil
		}
		for _, name := range applied {
			fmt.Fprintf(out, "Applied %s\n", name)
		}
		return nil
	})
}
