package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldWeight is the relative importance of one field in full-text relevance
type FieldWeight struct {
	Field  string
	Weight float64
}

// Field names used by the text weights and by store implementations
const (
	FieldTitle            = "title"
	FieldKeywords         = "keywords"
	FieldDepartment       = "department"
	FieldLocation         = "location"
	FieldDescription      = "description"
	FieldRequirements     = "requirements"
	FieldName             = "name"
	FieldEmail            = "email"
	FieldSkills           = "skills"
	FieldResumeText       = "resume_text"
	FieldMatchExplanation = "match_explanation"
)

// JobTextWeights are the full-text weights applied to job fields.
var JobTextWeights = []FieldWeight{
	{Field: FieldTitle, Weight: 10},
	{Field: FieldKeywords, Weight: 8},
	{Field: FieldDepartment, Weight: 5},
	{Field: FieldLocation, Weight: 5},
	{Field: FieldDescription, Weight: 3},
	{Field: FieldRequirements, Weight: 3},
}

// CandidateTextWeights are the full-text weights applied to candidate fields.
var CandidateTextWeights = []FieldWeight{
	{Field: FieldName, Weight: 10},
	{Field: FieldEmail, Weight: 8},
	{Field: FieldSkills, Weight: 7},
	{Field: FieldResumeText, Weight: 5},
	{Field: FieldMatchExplanation, Weight: 3},
}

// TitleBoostValue is added to a job's TitleBoost when TextQuery.BoostPattern matches its title.
const TitleBoostValue = 10

// FieldMatch selects records by their primary display field (title or name).
// Pattern is a case-insensitive regular expression whose user text is already escaped.
// When Normalized is non-empty, records whose normalized field equals it also match.
type FieldMatch struct {
	Pattern    string
	Normalized string
	Limit      int
}

// TextQuery is a relevance-scored full-text lookup. Terms are OR-ed.
// BoostPattern applies to jobs only: when set, results are ordered by
// TitleBoost descending before relevance.
type TextQuery struct {
	Terms        string
	BoostPattern string
	Limit        int
}

// PrefixQuery selects records where any suggestion field matches Pattern.
// JobID scopes candidate lookups to one job.
type PrefixQuery struct {
	Pattern string
	JobID   *uuid.UUID
	Limit   int
}

// JobFilter holds the structured and text filters for faceted job search
type JobFilter struct {
	Query      string    `json:"query,omitempty"`
	Department string    `json:"department,omitempty"`
	Location   string    `json:"location,omitempty"`
	Status     JobStatus `json:"status,omitempty" validate:"omitempty,oneof=draft active closed"`
	Limit      int       `json:"limit,omitempty" validate:"min=0"`
}

// Validate validates the JobFilter using the validator.
func (f *JobFilter) Validate() error {
	validate := validator.New()
	return validate.Struct(f)
}

// CandidateFilter holds the structured and text filters for faceted candidate search.
// Score bounds are inclusive.
type CandidateFilter struct {
	Query    string     `json:"query,omitempty"`
	JobID    *uuid.UUID `json:"job_id,omitempty"`
	MinScore *int       `json:"min_score,omitempty" validate:"omitempty,min=0,max=100"`
	MaxScore *int       `json:"max_score,omitempty" validate:"omitempty,min=0,max=100"`
	Limit    int        `json:"limit,omitempty" validate:"min=0"`
}

// Validate validates the CandidateFilter using the validator.
func (f *CandidateFilter) Validate() error {
	validate := validator.New()
	return validate.Struct(f)
}
