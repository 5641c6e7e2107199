package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/talent-search/internal/config"
	"github.com/jonathan/talent-search/internal/observability"
	"github.com/jonathan/talent-search/internal/search"
	"github.com/spf13/cobra"
)

var suggestJobID string

var suggestCmd = &cobra.Command{
	Use:       "suggest <jobs|candidates> <prefix>",
	Short:     "Print typeahead suggestions",
	Long:      `Print up to ten distinct values starting with prefix, drawn from jobs or candidates.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"jobs", "candidates"},
	RunE:      runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&suggestJobID, "job-id", "", "Scope candidate suggestions to one job")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	kind, prefix := args[0], args[1]
	if kind != "jobs" && kind != "candidates" {
		return fmt.Errorf("unknown suggestion source %q: want jobs or candidates", kind)
	}

	var jobID *uuid.UUID
	if suggestJobID != "" {
		if kind != "candidates" {
			return fmt.Errorf("--job-id only applies to candidate suggestions")
		}
		id, err := uuid.Parse(suggestJobID)
		if err != nil {
			return fmt.Errorf("invalid --job-id: %w", err)
		}
		jobID = &id
	}

	return withService(cmd.Context(), func(_ *config.Config, _ *backend, svc *search.Service) error {
		var (
			suggestions []string
			err         error
		)
		if kind == "jobs" {
			suggestions, err = svc.SuggestJobs(cmd.Context(), prefix)
		} else {
			suggestions, err = svc.SuggestCandidates(cmd.Context(), prefix, jobID)
		}
		if err != nil {
			return err
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintSuggestions(kind[:len(kind)-1], prefix, suggestions)
		return nil
	})
}
