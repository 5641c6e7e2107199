// Package types provides type definitions for the job and candidate records searched by talent-search.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the publication state of a job posting
type JobStatus string

// JobStatus values
const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
)

// ParseJobStatus converts a raw string into a JobStatus.
// Matching is case-insensitive; unknown values are an error.
func ParseJobStatus(s string) (JobStatus, error) {
	switch JobStatus(strings.ToLower(strings.TrimSpace(s))) {
	case JobStatusDraft:
		return JobStatusDraft, nil
	case JobStatusActive:
		return JobStatusActive, nil
	case JobStatusClosed:
		return JobStatusClosed, nil
	default:
		return "", fmt.Errorf("invalid job status %q: must be one of draft, active, closed", s)
	}
}

// Job is a posted position as stored upstream. Search never writes it.
type Job struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Department      string    `json:"department"`
	Location        string    `json:"location"`
	Status          JobStatus `json:"status"`
	Description     string    `json:"description"`
	Requirements    string    `json:"requirements"`
	Keywords        []string  `json:"keywords"`
	SearchableTitle string    `json:"searchable_title"`
	CreatedAt       time.Time `json:"created_at"`

	// Set only by full-text lookups
	Score      float64 `json:"score,omitempty"`
	TitleBoost int     `json:"title_match,omitempty"`
}

// Summary returns the denormalized view attached to candidates.
func (j *Job) Summary() JobSummary {
	return JobSummary{
		ID:         j.ID,
		Title:      j.Title,
		Department: j.Department,
	}
}

// JobSummary is the read-time join of a candidate's parent job
type JobSummary struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Department string    `json:"department"`
}
