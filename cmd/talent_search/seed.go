package main

import (
	"fmt"

	"github.com/jonathan/talent-search/internal/config"
	"github.com/jonathan/talent-search/internal/observability"
	"github.com/jonathan/talent-search/internal/search"
	"github.com/jonathan/talent-search/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.json>",
	Short: "Load jobs and candidates from a JSON fixture",
	Long: `Validate a fixture against the seed schema and insert its jobs, then their
candidates, through a bounded worker pool. Resume text is truncated to 1000 characters.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	fixture, err := seed.LoadFile(args[0])
	if err != nil {
		return err
	}

	return withService(cmd.Context(), func(cfg *config.Config, b *backend, _ *search.Service) error {
		res, err := seed.New(b, seed.WithPoolSize(cfg.SeedWorkers)).Seed(cmd.Context(), fixture)
		observability.NewPrinter(cmd.OutOrStdout()).PrintCounts("seeded", int64(res.Jobs), int64(res.Candidates))
		if err != nil {
			return fmt.Errorf("seeding finished with errors: %w", err)
		}
		return nil
	})
}
