package main

import (
	"fmt"

	"github.com/jonathan/talent-search/internal/config"
	"github.com/jonathan/talent-search/internal/observability"
	"github.com/jonathan/talent-search/internal/search"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute normalized search columns",
	Long:  `Rewrite searchable_title and searchable_name wherever they no longer match the normalized display field.`,
	Args:  cobra.NoArgs,
	RunE:  runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	return withService(cmd.Context(), func(_ *config.Config, b *backend, _ *search.Service) error {
		jobs, candidates, err := b.RefreshSearchableFields(cmd.Context())
		if err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintCounts("refreshed", jobs, candidates)
		return nil
	})
}
