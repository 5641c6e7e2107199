package types

import (
	"time"

	"github.com/google/uuid"
)

// Score bounds for Candidate.MatchScore
const (
	MinMatchScore = 0
	MaxMatchScore = 100
)

// Candidate is an applicant attached to exactly one job.
type Candidate struct {
	ID               uuid.UUID `json:"id"`
	JobID            uuid.UUID `json:"job_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	MatchScore       int       `json:"match_score"`
	MatchExplanation string    `json:"match_explanation,omitempty"`
	ResumeText       string    `json:"resume_text,omitempty"`
	Skills           []string  `json:"skills"`
	SearchableName   string    `json:"searchable_name"`
	CreatedAt        time.Time `json:"created_at"`

	// Set only by full-text lookups
	Score float64 `json:"score,omitempty"`

	// Parent job, joined at response time. Nil when the job no longer exists.
	Job *JobSummary `json:"job,omitempty"`
}
