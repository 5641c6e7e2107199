package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/talent-search/internal/search"
	"github.com/jonathan/talent-search/internal/types"
)

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// parseOptionalInt parses an integer query parameter. Absent means nil.
func parseOptionalInt(r *http.Request, key string) (*int, error) {
	valStr := strings.TrimSpace(r.URL.Query().Get(key))
	if valStr == "" {
		return nil, nil
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return nil, &search.ValidationError{Field: key, Message: "must be an integer"}
	}
	return &val, nil
}

// parseOptionalUUID parses a UUID query parameter. Absent means nil.
func parseOptionalUUID(r *http.Request, key string) (*uuid.UUID, error) {
	valStr := strings.TrimSpace(r.URL.Query().Get(key))
	if valStr == "" {
		return nil, nil
	}
	id, err := uuid.Parse(valStr)
	if err != nil {
		return nil, &search.ValidationError{Field: key, Message: "must be a valid UUID"}
	}
	return &id, nil
}

// handleSearchJobs serves faceted job search
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := types.JobFilter{
		Query:      q.Get("query"),
		Department: q.Get("department"),
		Location:   q.Get("location"),
		Limit:      parseQueryInt(r, "limit", search.FacetedLimit, search.FacetedLimit),
	}

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status, err := types.ParseJobStatus(raw)
		if err != nil {
			s.searchError(w, r, &search.ValidationError{Field: "status", Message: "must be one of draft, active, closed"})
			return
		}
		filter.Status = status
	}

	jobs, err := s.search.SearchJobs(r.Context(), filter)
	if err != nil {
		s.searchError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

// handleSearchCandidates serves faceted candidate search
func (s *Server) handleSearchCandidates(w http.ResponseWriter, r *http.Request) {
	filter := types.CandidateFilter{
		Query: r.URL.Query().Get("query"),
		Limit: parseQueryInt(r, "limit", search.FacetedLimit, search.FacetedLimit),
	}

	var err error
	if filter.JobID, err = parseOptionalUUID(r, "jobId"); err != nil {
		s.searchError(w, r, err)
		return
	}
	if filter.MinScore, err = parseOptionalInt(r, "minScore"); err != nil {
		s.searchError(w, r, err)
		return
	}
	if filter.MaxScore, err = parseOptionalInt(r, "maxScore"); err != nil {
		s.searchError(w, r, err)
		return
	}

	candidates, err := s.search.SearchCandidates(r.Context(), filter)
	if err != nil {
		s.searchError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, candidates)
}

// handleUnifiedSearch searches jobs and candidates with one query
func (s *Server) handleUnifiedSearch(w http.ResponseWriter, r *http.Request) {
	rs, err := s.search.Unified(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		s.searchError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rs)
}

// handleSuggestJobs returns typeahead suggestions drawn from jobs
func (s *Server) handleSuggestJobs(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.search.SuggestJobs(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		s.searchError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, suggestions)
}

// handleSuggestCandidates returns typeahead suggestions drawn from candidates,
// optionally scoped to one job
func (s *Server) handleSuggestCandidates(w http.ResponseWriter, r *http.Request) {
	jobID, err := parseOptionalUUID(r, "jobId")
	if err != nil {
		s.searchError(w, r, err)
		return
	}

	suggestions, err := s.search.SuggestCandidates(r.Context(), r.URL.Query().Get("prefix"), jobID)
	if err != nil {
		s.searchError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, suggestions)
}
