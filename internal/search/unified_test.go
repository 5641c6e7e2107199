package search

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/talent-search/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnified_EmptyQuery(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		store := &fakeStore{}
		svc := newTestService(t, store)

		rs, err := svc.Unified(context.Background(), raw)
		require.NoError(t, err)
		assert.NotNil(t, rs.Jobs)
		assert.NotNil(t, rs.Candidates)
		assert.Empty(t, rs.Jobs)
		assert.Empty(t, rs.Candidates)
		assert.Zero(t, store.callCount())

		body, err := json.Marshal(rs)
		require.NoError(t, err)
		assert.JSONEq(t, `{"jobs":[],"candidates":[]}`, string(body))
	}
}

func TestUnified_TitleLikeQuery(t *testing.T) {
	jobID := uuid.New()
	store := &fakeStore{
		textJobs: func(q types.TextQuery) ([]types.Job, error) {
			return []types.Job{
				{ID: jobID, Title: "Senior Backend Engineer", TitleBoost: 10, Score: 4},
				{ID: uuid.New(), Title: "Backend Developer", Score: 9},
			}, nil
		},
		textCandidates: func(q types.TextQuery) ([]types.Candidate, error) {
			return []types.Candidate{{ID: uuid.New(), JobID: jobID, Name: "Priya"}}, nil
		},
		summaries: map[uuid.UUID]types.JobSummary{
			jobID: {ID: jobID, Title: "Senior Backend Engineer", Department: "Engineering"},
		},
	}
	svc := newTestService(t, store)

	rs, err := svc.Unified(context.Background(), "Senior Backend Engineer")
	require.NoError(t, err)

	// Exact and partial miss, full-text with boost
	assert.Equal(t, TierFullText, rs.JobTier)
	require.Len(t, store.jobMatches, 2)
	require.Len(t, store.jobTexts, 1)
	assert.Equal(t, 10, store.jobTexts[0].Limit)
	assert.Equal(t, "Senior Backend Engineer", store.jobTexts[0].BoostPattern)
	assert.Equal(t, "Senior Backend Engineer", rs.Jobs[0].Title)

	// Candidates skip straight to full-text
	assert.Empty(t, store.candMatches)
	require.Len(t, store.candTexts, 1)
	assert.Equal(t, 3, store.candTexts[0].Limit)
	assert.Empty(t, store.candTexts[0].BoostPattern)

	require.Len(t, rs.Candidates, 1)
	require.NotNil(t, rs.Candidates[0].Job)
	assert.Equal(t, "Engineering", rs.Candidates[0].Job.Department)
}

func TestUnified_NameQuery(t *testing.T) {
	jobID := uuid.New()
	store := &fakeStore{
		matchCandidates: func(m types.FieldMatch) ([]types.Candidate, error) {
			if m.Normalized != "" {
				return nil, nil
			}
			return []types.Candidate{
				{ID: uuid.New(), JobID: jobID, Name: "Ana Lopez"},
				{ID: uuid.New(), JobID: jobID, Name: "Anand Rao"},
			}, nil
		},
		summaries: map[uuid.UUID]types.JobSummary{
			jobID: {ID: jobID, Title: "Data Analyst", Department: "Finance"},
		},
	}
	svc := newTestService(t, store)

	rs, err := svc.Unified(context.Background(), "ana")
	require.NoError(t, err)

	assert.Equal(t, TierPartial, rs.CandidateTier)
	assert.Len(t, rs.Candidates, 2)
	require.Len(t, store.candMatches, 2)
	assert.Equal(t, 5, store.candMatches[0].Limit)
	assert.Equal(t, 8, store.candMatches[1].Limit)
	assert.Empty(t, store.candTexts)

	// Jobs run the full cascade without a title boost
	assert.Equal(t, TierNone, rs.JobTier)
	require.Len(t, store.jobTexts, 1)
	assert.Equal(t, 5, store.jobTexts[0].Limit)
	assert.Empty(t, store.jobTexts[0].BoostPattern)
	assert.NotNil(t, rs.Jobs)

	// One batched lookup for the shared parent
	require.Len(t, store.summaryLookups, 1)
	assert.Equal(t, []uuid.UUID{jobID}, store.summaryLookups[0])
	for _, c := range rs.Candidates {
		require.NotNil(t, c.Job)
		assert.Equal(t, "Data Analyst", c.Job.Title)
	}
}

func TestUnified_DeletedParentJob(t *testing.T) {
	live, gone := uuid.New(), uuid.New()
	store := &fakeStore{
		matchCandidates: func(m types.FieldMatch) ([]types.Candidate, error) {
			return []types.Candidate{
				{ID: uuid.New(), JobID: gone, Name: "Sam"},
				{ID: uuid.New(), JobID: live, Name: "Sam"},
			}, nil
		},
		summaries: map[uuid.UUID]types.JobSummary{
			live: {ID: live, Title: "Recruiter", Department: "People"},
		},
	}
	svc := newTestService(t, store)

	rs, err := svc.Unified(context.Background(), "Sam")
	require.NoError(t, err)
	require.Len(t, rs.Candidates, 2)
	assert.Nil(t, rs.Candidates[0].Job)
	assert.Equal(t, gone, rs.Candidates[0].JobID)
	require.NotNil(t, rs.Candidates[1].Job)
	assert.Equal(t, "Recruiter", rs.Candidates[1].Job.Title)
}

func TestUnified_MetacharacterQuery(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)

	rs, err := svc.Unified(context.Background(), "C++ Developer")
	require.NoError(t, err)
	assert.Empty(t, rs.Jobs)

	require.Len(t, store.jobMatches, 2)
	assert.Equal(t, `^C\+\+ Developer$`, store.jobMatches[0].Pattern)
	assert.Equal(t, "c++ developer", store.jobMatches[0].Normalized)
	assert.Equal(t, `C\+\+ Developer`, store.jobMatches[1].Pattern)
	require.Len(t, store.jobTexts, 1)
	assert.Equal(t, `C\+\+ Developer`, store.jobTexts[0].BoostPattern)
}

func TestUnified_StoreErrorFailsWholeSearch(t *testing.T) {
	store := &fakeStore{
		textJobs: func(types.TextQuery) ([]types.Job, error) {
			return nil, errors.New("index offline")
		},
	}
	svc := newTestService(t, store)

	rs, err := svc.Unified(context.Background(), "nothing matches")
	require.Error(t, err)
	assert.Nil(t, rs)
	assert.Contains(t, err.Error(), "full-text tier")
}

func TestUnified_SummaryErrorFailsWholeSearch(t *testing.T) {
	store := &fakeStore{
		matchCandidates: func(types.FieldMatch) ([]types.Candidate, error) {
			return []types.Candidate{{ID: uuid.New(), JobID: uuid.New()}}, nil
		},
		summariesErr: errors.New("timeout"),
	}
	svc := newTestService(t, store)

	_, err := svc.Unified(context.Background(), "sam")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job summaries")
}

func TestUnified_NoCandidatesSkipsEnrichment(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)

	_, err := svc.Unified(context.Background(), "ana")
	require.NoError(t, err)
	assert.Empty(t, store.summaryLookups)
}

func TestNewService_RequiresStore(t *testing.T) {
	_, err := NewService(nil)
	assert.ErrorIs(t, err, ErrStoreRequired)
}
