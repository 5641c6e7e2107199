package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestParseJobStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    JobStatus
		wantErr bool
	}{
		{input: "draft", want: JobStatusDraft},
		{input: "ACTIVE", want: JobStatusActive},
		{input: "  Closed ", want: JobStatusClosed},
		{input: "archived", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseJobStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJobFilter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filter  JobFilter
		wantErr bool
	}{
		{name: "empty", filter: JobFilter{}},
		{name: "valid status", filter: JobFilter{Status: JobStatusActive, Limit: 20}},
		{name: "unknown status", filter: JobFilter{Status: "archived"}, wantErr: true},
		{name: "negative limit", filter: JobFilter{Limit: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCandidateFilter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filter  CandidateFilter
		wantErr bool
	}{
		{name: "empty", filter: CandidateFilter{}},
		{name: "bounds at edges", filter: CandidateFilter{MinScore: intPtr(0), MaxScore: intPtr(100)}},
		{name: "min below range", filter: CandidateFilter{MinScore: intPtr(-5)}, wantErr: true},
		{name: "max above range", filter: CandidateFilter{MaxScore: intPtr(101)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJob_Summary(t *testing.T) {
	job := Job{ID: uuid.New(), Title: "Data Engineer", Department: "Data", Location: "Remote"}

	s := job.Summary()

	assert.Equal(t, JobSummary{ID: job.ID, Title: "Data Engineer", Department: "Data"}, s)
}

func TestCandidate_OmitsEmptyJob(t *testing.T) {
	data, err := json.Marshal(Candidate{Name: "Ana Silva"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"job"`)
	assert.NotContains(t, string(data), `"score"`)

	data, err = json.Marshal(Candidate{Name: "Ana Silva", Job: &JobSummary{Title: "Data Engineer"}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"job":{`)
}
