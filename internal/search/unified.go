package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/talent-search/internal/types"
	"golang.org/x/sync/errgroup"
)

// Result caps for unified search
const (
	jobExactLimit           = 5
	jobPartialLimit         = 8
	jobFullTextLimit        = 5
	jobBoostedFullTextLimit = 10

	candidateExactLimit         = 5
	candidatePartialLimit       = 8
	candidateFullTextLimit      = 5
	candidateTitleFullTextLimit = 3
)

// ResultSet is the unified search response.
type ResultSet struct {
	Jobs       []types.Job       `json:"jobs"`
	Candidates []types.Candidate `json:"candidates"`

	JobTier       Tier `json:"-"`
	CandidateTier Tier `json:"-"`
}

func emptyResultSet() *ResultSet {
	return &ResultSet{
		Jobs:       []types.Job{},
		Candidates: []types.Candidate{},
	}
}

// Plan returns the tier limits unified search uses for q.
func Plan(q Query) (JobLimits, CandidateLimits) {
	if q.Intent.IsTitleLike {
		jobs := JobLimits{
			Exact:      jobExactLimit,
			Partial:    jobPartialLimit,
			FullText:   jobBoostedFullTextLimit,
			BoostTitle: true,
		}
		return jobs, CandidateLimits{FullText: candidateTitleFullTextLimit}
	}

	jobs := JobLimits{
		Exact:    jobExactLimit,
		Partial:  jobPartialLimit,
		FullText: jobFullTextLimit,
	}
	candidates := CandidateLimits{
		Exact:    candidateExactLimit,
		Partial:  candidatePartialLimit,
		FullText: candidateFullTextLimit,
	}
	return jobs, candidates
}

// Unified searches jobs and candidates for raw at once. Candidates come back
// with their parent job attached.
func (s *Service) Unified(ctx context.Context, raw string) (*ResultSet, error) {
	q := ParseQuery(raw)
	if q.Empty() {
		return emptyResultSet(), nil
	}

	jobLimits, candidateLimits := Plan(q)
	rs := emptyResultSet()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		jobs, tier, err := s.ResolveJobs(gctx, q, jobLimits)
		if err != nil {
			return fmt.Errorf("failed to resolve jobs: %w", err)
		}
		if jobs != nil {
			rs.Jobs = jobs
		}
		rs.JobTier = tier
		return nil
	})
	g.Go(func() error {
		candidates, tier, err := s.ResolveCandidates(gctx, q, candidateLimits)
		if err != nil {
			return fmt.Errorf("failed to resolve candidates: %w", err)
		}
		if candidates != nil {
			rs.Candidates = candidates
		}
		rs.CandidateTier = tier
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.attachJobs(ctx, rs.Candidates); err != nil {
		return nil, err
	}
	return rs, nil
}

// attachJobs sets Job on each candidate whose parent still exists.
func (s *Service) attachJobs(ctx context.Context, candidates []types.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(candidates))
	ids := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.JobID]; ok {
			continue
		}
		seen[c.JobID] = struct{}{}
		ids = append(ids, c.JobID)
	}

	summaries, err := s.store.JobSummaries(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load job summaries: %w", err)
	}

	for i := range candidates {
		if summary, ok := summaries[candidates[i].JobID]; ok {
			candidates[i].Job = &summary
		} else {
			candidates[i].Job = nil
		}
	}
	return nil
}
