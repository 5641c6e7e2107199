package search

import (
	"context"
	"fmt"

	"github.com/jonathan/talent-search/internal/types"
)

// Tier identifies which matching strategy produced a result.
type Tier int

// Tiers in cascade order
const (
	TierNone Tier = iota
	TierExact
	TierPartial
	TierFullText
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierPartial:
		return "partial"
	case TierFullText:
		return "full-text"
	default:
		return "none"
	}
}

// JobLimits sets the per-tier result caps for job resolution. A zero limit skips the tier.
// BoostTitle orders full-text results by title match before relevance.
type JobLimits struct {
	Exact      int
	Partial    int
	FullText   int
	BoostTitle bool
}

// CandidateLimits sets the per-tier result caps for candidate resolution. A zero limit skips the tier.
type CandidateLimits struct {
	Exact    int
	Partial  int
	FullText int
}

type tierStep[T any] struct {
	tier  Tier
	limit int
	run   func(ctx context.Context, limit int) ([]T, error)
}

// resolve runs steps in order and returns the first non-empty result.
// A store error stops the cascade.
func resolve[T any](ctx context.Context, steps []tierStep[T]) ([]T, Tier, error) {
	for _, step := range steps {
		if step.limit <= 0 {
			continue
		}
		results, err := step.run(ctx, step.limit)
		if err != nil {
			return nil, TierNone, fmt.Errorf("%s tier: %w", step.tier, err)
		}
		if len(results) > 0 {
			if len(results) > step.limit {
				results = results[:step.limit]
			}
			return results, step.tier, nil
		}
	}
	return nil, TierNone, nil
}

// ResolveJobs finds jobs for q, trying exact, partial and full-text matching in turn.
func (s *Service) ResolveJobs(ctx context.Context, q Query, limits JobLimits) ([]types.Job, Tier, error) {
	if q.Empty() {
		return nil, TierNone, nil
	}

	boost := ""
	if limits.BoostTitle {
		boost = ContainsPattern(q.Raw)
	}

	steps := []tierStep[types.Job]{
		{tier: TierExact, limit: limits.Exact, run: func(ctx context.Context, limit int) ([]types.Job, error) {
			return s.store.MatchJobs(ctx, types.FieldMatch{
				Pattern:    ExactPattern(q.Raw),
				Normalized: q.Normalized,
				Limit:      limit,
			})
		}},
		{tier: TierPartial, limit: limits.Partial, run: func(ctx context.Context, limit int) ([]types.Job, error) {
			return s.store.MatchJobs(ctx, types.FieldMatch{
				Pattern: ContainsPattern(q.Raw),
				Limit:   limit,
			})
		}},
		{tier: TierFullText, limit: limits.FullText, run: func(ctx context.Context, limit int) ([]types.Job, error) {
			return s.store.TextSearchJobs(ctx, types.TextQuery{
				Terms:        q.Normalized,
				BoostPattern: boost,
				Limit:        limit,
			})
		}},
	}
	return resolve(ctx, steps)
}

// ResolveCandidates finds candidates for q, trying exact, partial and full-text matching in turn.
func (s *Service) ResolveCandidates(ctx context.Context, q Query, limits CandidateLimits) ([]types.Candidate, Tier, error) {
	if q.Empty() {
		return nil, TierNone, nil
	}

	steps := []tierStep[types.Candidate]{
		{tier: TierExact, limit: limits.Exact, run: func(ctx context.Context, limit int) ([]types.Candidate, error) {
			return s.store.MatchCandidates(ctx, types.FieldMatch{
				Pattern:    ExactPattern(q.Raw),
				Normalized: q.Normalized,
				Limit:      limit,
			})
		}},
		{tier: TierPartial, limit: limits.Partial, run: func(ctx context.Context, limit int) ([]types.Candidate, error) {
			return s.store.MatchCandidates(ctx, types.FieldMatch{
				Pattern: ContainsPattern(q.Raw),
				Limit:   limit,
			})
		}},
		{tier: TierFullText, limit: limits.FullText, run: func(ctx context.Context, limit int) ([]types.Candidate, error) {
			return s.store.TextSearchCandidates(ctx, types.TextQuery{
				Terms: q.Normalized,
				Limit: limit,
			})
		}},
	}
	return resolve(ctx, steps)
}
