package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/talent-search/internal/config"
	"github.com/jonathan/talent-search/internal/observability"
	"github.com/jonathan/talent-search/internal/search"
	"github.com/jonathan/talent-search/internal/types"
	"github.com/spf13/cobra"
)

var (
	queryJSON bool

	jobsDepartment string
	jobsLocation   string
	jobsStatus     string

	candidatesJobID    string
	candidatesMinScore int
	candidatesMaxScore int
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Run a unified search",
	Long:  `Search jobs and candidates at once, the way the /search/unified endpoint does.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

var queryJobsCmd = &cobra.Command{
	Use:   "jobs [text]",
	Short: "Run a faceted job search",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runQueryJobs,
}

var queryCandidatesCmd = &cobra.Command{
	Use:   "candidates [text]",
	Short: "Run a faceted candidate search",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runQueryCandidates,
}

func init() {
	queryCmd.PersistentFlags().BoolVar(&queryJSON, "json", false, "Print the raw JSON response")

	queryJobsCmd.Flags().StringVar(&jobsDepartment, "department", "", "Exact department")
	queryJobsCmd.Flags().StringVar(&jobsLocation, "location", "", "Exact location")
	queryJobsCmd.Flags().StringVar(&jobsStatus, "status", "", "draft, active or closed")

	queryCandidatesCmd.Flags().StringVar(&candidatesJobID, "job-id", "", "Only candidates for this job")
	queryCandidatesCmd.Flags().IntVar(&candidatesMinScore, "min-score", -1, "Minimum match score (inclusive)")
	queryCandidatesCmd.Flags().IntVar(&candidatesMaxScore, "max-score", -1, "Maximum match score (inclusive)")

	queryCmd.AddCommand(queryJobsCmd, queryCandidatesCmd)
	rootCmd.AddCommand(queryCmd)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runQuery(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	return withService(cmd.Context(), func(_ *config.Config, _ *backend, svc *search.Service) error {
		rs, err := svc.Unified(cmd.Context(), text)
		if err != nil {
			return err
		}
		if queryJSON {
			return printJSON(cmd, rs)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintUnified(text, rs)
		return nil
	})
}

func runQueryJobs(cmd *cobra.Command, args []string) error {
	filter := types.JobFilter{
		Department: jobsDepartment,
		Location:   jobsLocation,
	}
	if len(args) == 1 {
		filter.Query = args[0]
	}
	if jobsStatus != "" {
		status, err := types.ParseJobStatus(jobsStatus)
		if err != nil {
			return err
		}
		filter.Status = status
	}

	return withService(cmd.Context(), func(_ *config.Config, _ *backend, svc *search.Service) error {
		jobs, err := svc.SearchJobs(cmd.Context(), filter)
		if err != nil {
			return err
		}
		if queryJSON {
			return printJSON(cmd, jobs)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintJobs("JOBS", jobs)
		return nil
	})
}

func runQueryCandidates(cmd *cobra.Command, args []string) error {
	var filter types.CandidateFilter
	if len(args) == 1 {
		filter.Query = args[0]
	}
	if candidatesJobID != "" {
		id, err := uuid.Parse(candidatesJobID)
		if err != nil {
			return fmt.Errorf("invalid --job-id: %w", err)
		}
		filter.JobID = &id
	}
	if cmd.Flags().Changed("min-score") {
		filter.MinScore = &candidatesMinScore
	}
	if cmd.Flags().Changed("max-score") {
		filter.MaxScore = &candidatesMaxScore
	}

	return withService(cmd.Context(), func(_ *config.Config, _ *backend, svc *search.Service) error {
		candidates, err := svc.SearchCandidates(cmd.Context(), filter)
		if err != nil {
			return err
		}
		if queryJSON {
			return printJSON(cmd, candidates)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintCandidates("CANDIDATES", candidates)
		return nil
	})
}
