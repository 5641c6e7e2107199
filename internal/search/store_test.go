package search

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/talent-search/internal/types"
	"github.com/stretchr/testify/require"
)

// fakeStore returns scripted results and records every call.
type fakeStore struct {
	mu sync.Mutex

	matchJobs       func(m types.FieldMatch) ([]types.Job, error)
	textJobs        func(q types.TextQuery) ([]types.Job, error)
	matchCandidates func(m types.FieldMatch) ([]types.Candidate, error)
	textCandidates  func(q types.TextQuery) ([]types.Candidate, error)
	suggestJobs     func(q types.PrefixQuery) ([]types.Job, error)
	suggestCands    func(q types.PrefixQuery) ([]types.Candidate, error)
	filterJobs      func(f types.JobFilter) ([]types.Job, error)
	filterCands     func(f types.CandidateFilter) ([]types.Candidate, error)
	summaries       map[uuid.UUID]types.JobSummary
	summariesErr    error

	calls          []string
	jobMatches     []types.FieldMatch
	jobTexts       []types.TextQuery
	candMatches    []types.FieldMatch
	candTexts      []types.TextQuery
	prefixQueries  []types.PrefixQuery
	jobFilters     []types.JobFilter
	candFilters    []types.CandidateFilter
	summaryLookups [][]uuid.UUID
}

func (f *fakeStore) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeStore) MatchJobs(_ context.Context, m types.FieldMatch) ([]types.Job, error) {
	f.record("MatchJobs")
	f.mu.Lock()
	f.jobMatches = append(f.jobMatches, m)
	f.mu.Unlock()
	if f.matchJobs == nil {
		return nil, nil
	}
	return f.matchJobs(m)
}

func (f *fakeStore) TextSearchJobs(_ context.Context, q types.TextQuery) ([]types.Job, error) {
	f.record("TextSearchJobs")
	f.mu.Lock()
	f.jobTexts = append(f.jobTexts, q)
	f.mu.Unlock()
	if f.textJobs == nil {
		return nil, nil
	}
	return f.textJobs(q)
}

func (f *fakeStore) MatchCandidates(_ context.Context, m types.FieldMatch) ([]types.Candidate, error) {
	f.record("MatchCandidates")
	f.mu.Lock()
	f.candMatches = append(f.candMatches, m)
	f.mu.Unlock()
	if f.matchCandidates == nil {
		return nil, nil
	}
	return f.matchCandidates(m)
}

func (f *fakeStore) TextSearchCandidates(_ context.Context, q types.TextQuery) ([]types.Candidate, error) {
	f.record("TextSearchCandidates")
	f.mu.Lock()
	f.candTexts = append(f.candTexts, q)
	f.mu.Unlock()
	if f.textCandidates == nil {
		return nil, nil
	}
	return f.textCandidates(q)
}

func (f *fakeStore) SuggestJobs(_ context.Context, q types.PrefixQuery) ([]types.Job, error) {
	f.record("SuggestJobs")
	f.mu.Lock()
	f.prefixQueries = append(f.prefixQueries, q)
	f.mu.Unlock()
	if f.suggestJobs == nil {
		return nil, nil
	}
	return f.suggestJobs(q)
}

func (f *fakeStore) SuggestCandidates(_ context.Context, q types.PrefixQuery) ([]types.Candidate, error) {
	f.record("SuggestCandidates")
	f.mu.Lock()
	f.prefixQueries = append(f.prefixQueries, q)
	f.mu.Unlock()
	if f.suggestCands == nil {
		return nil, nil
	}
	return f.suggestCands(q)
}

func (f *fakeStore) FilterJobs(_ context.Context, filter types.JobFilter) ([]types.Job, error) {
	f.record("FilterJobs")
	f.mu.Lock()
	f.jobFilters = append(f.jobFilters, filter)
	f.mu.Unlock()
	if f.filterJobs == nil {
		return nil, nil
	}
	return f.filterJobs(filter)
}

func (f *fakeStore) FilterCandidates(_ context.Context, filter types.CandidateFilter) ([]types.Candidate, error) {
	f.record("FilterCandidates")
	f.mu.Lock()
	f.candFilters = append(f.candFilters, filter)
	f.mu.Unlock()
	if f.filterCands == nil {
		return nil, nil
	}
	return f.filterCands(filter)
}

func (f *fakeStore) JobSummaries(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]types.JobSummary, error) {
	f.record("JobSummaries")
	f.mu.Lock()
	f.summaryLookups = append(f.summaryLookups, ids)
	f.mu.Unlock()
	if f.summariesErr != nil {
		return nil, f.summariesErr
	}
	out := make(map[uuid.UUID]types.JobSummary)
	for _, id := range ids {
		if s, ok := f.summaries[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func newTestService(t *testing.T, store Store, opts ...Option) *Service {
	t.Helper()
	svc, err := NewService(store, opts...)
	require.NoError(t, err)
	return svc
}
