package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/talent-search/internal/types"
)

// FacetedLimit caps faceted search results.
const FacetedLimit = 20

// SearchJobs filters jobs by department, location, status and an optional text query.
func (s *Service) SearchJobs(ctx context.Context, f types.JobFilter) ([]types.Job, error) {
	f.Query = strings.TrimSpace(f.Query)
	if err := f.Validate(); err != nil {
		return nil, toValidationError(err)
	}
	f.Limit = clampLimit(f.Limit)

	jobs, err := s.store.FilterJobs(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to filter jobs: %w", err)
	}
	if jobs == nil {
		jobs = []types.Job{}
	}
	return jobs, nil
}

// SearchCandidates filters candidates by job, inclusive match score range and an optional text query.
func (s *Service) SearchCandidates(ctx context.Context, f types.CandidateFilter) ([]types.Candidate, error) {
	f.Query = strings.TrimSpace(f.Query)
	if err := f.Validate(); err != nil {
		return nil, toValidationError(err)
	}
	if f.MinScore != nil && f.MaxScore != nil && *f.MinScore > *f.MaxScore {
		return nil, &ValidationError{
			Field:   "minScore",
			Message: fmt.Sprintf("must not exceed maxScore (%d > %d)", *f.MinScore, *f.MaxScore),
		}
	}
	f.Limit = clampLimit(f.Limit)

	candidates, err := s.store.FilterCandidates(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to filter candidates: %w", err)
	}
	if candidates == nil {
		candidates = []types.Candidate{}
	}
	return candidates, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > FacetedLimit {
		return FacetedLimit
	}
	return limit
}

// paramNames maps filter struct fields to their query parameter names.
var paramNames = map[string]string{
	"Status":   "status",
	"MinScore": "minScore",
	"MaxScore": "maxScore",
	"Limit":    "limit",
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: "filter", Message: err.Error()}
	}

	fe := verrs[0]
	field, ok := paramNames[fe.Field()]
	if !ok {
		field = fe.Field()
	}

	var msg string
	switch fe.Tag() {
	case "oneof":
		msg = "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		msg = "must be at least " + fe.Param()
	case "max":
		msg = "must be at most " + fe.Param()
	default:
		msg = "failed " + fe.Tag() + " check"
	}
	return &ValidationError{Field: field, Message: msg}
}
