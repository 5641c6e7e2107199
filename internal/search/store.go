package search

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/talent-search/internal/types"
)

// JobStore is the read contract search needs from the job collection.
type JobStore interface {
	// MatchJobs returns jobs whose title matches m.Pattern, or whose
	// searchable title equals m.Normalized when that is set.
	MatchJobs(ctx context.Context, m types.FieldMatch) ([]types.Job, error)
	// TextSearchJobs returns jobs matching any term, with Score set,
	// ordered by relevance (after TitleBoost when a boost pattern is given).
	TextSearchJobs(ctx context.Context, q types.TextQuery) ([]types.Job, error)
	// SuggestJobs returns jobs whose title, department, location or any keyword matches q.Pattern.
	SuggestJobs(ctx context.Context, q types.PrefixQuery) ([]types.Job, error)
	FilterJobs(ctx context.Context, f types.JobFilter) ([]types.Job, error)
	// JobSummaries resolves job ids to summaries. Unknown ids are absent from the map.
	JobSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]types.JobSummary, error)
}

// CandidateStore is the read contract search needs from the candidate collection.
type CandidateStore interface {
	MatchCandidates(ctx context.Context, m types.FieldMatch) ([]types.Candidate, error)
	TextSearchCandidates(ctx context.Context, q types.TextQuery) ([]types.Candidate, error)
	// SuggestCandidates returns candidates whose name, email or any skill matches q.Pattern.
	SuggestCandidates(ctx context.Context, q types.PrefixQuery) ([]types.Candidate, error)
	FilterCandidates(ctx context.Context, f types.CandidateFilter) ([]types.Candidate, error)
}

// Store is everything a Service reads from.
type Store interface {
	JobStore
	CandidateStore
}

// SuggestionCache stores suggestion lists by key. Misses return ok == false.
type SuggestionCache interface {
	Get(ctx context.Context, key string) (values []string, ok bool, err error)
	Set(ctx context.Context, key string, values []string) error
}
