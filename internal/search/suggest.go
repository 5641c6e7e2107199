package search

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/talent-search/internal/types"
)

// SuggestionLimit caps both the entities scanned and the strings returned.
const SuggestionLimit = 10

// suggestionSet keeps distinct values in insertion order.
type suggestionSet struct {
	seen   map[string]struct{}
	values []string
}

func newSuggestionSet() *suggestionSet {
	return &suggestionSet{seen: make(map[string]struct{})}
}

func (s *suggestionSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}

// addMatching adds every value that starts with prefix, ignoring case.
func (s *suggestionSet) addMatching(prefix string, values ...string) {
	for _, v := range values {
		if HasPrefixFold(v, prefix) {
			s.add(v)
		}
	}
}

func (s *suggestionSet) list() []string {
	if len(s.values) > SuggestionLimit {
		return s.values[:SuggestionLimit]
	}
	return s.values
}

// SuggestJobs returns up to ten distinct job titles, departments, locations
// or keywords that start with prefix.
func (s *Service) SuggestJobs(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}

	key := "jobs:" + strings.ToLower(prefix)
	return s.cached(ctx, key, func() ([]string, error) {
		jobs, err := s.store.SuggestJobs(ctx, types.PrefixQuery{
			Pattern: PrefixPattern(prefix),
			Limit:   SuggestionLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to suggest jobs: %w", err)
		}

		set := newSuggestionSet()
		for _, j := range jobs {
			set.addMatching(prefix, j.Title, j.Department, j.Location)
			set.addMatching(prefix, j.Keywords...)
		}
		return set.list(), nil
	})
}

// SuggestCandidates returns up to ten distinct candidate names, emails or
// skills that start with prefix. A non-nil jobID restricts the lookup to that job.
func (s *Service) SuggestCandidates(ctx context.Context, prefix string, jobID *uuid.UUID) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}

	key := "candidates:" + strings.ToLower(prefix)
	if jobID != nil {
		key += ":" + jobID.String()
	}
	return s.cached(ctx, key, func() ([]string, error) {
		candidates, err := s.store.SuggestCandidates(ctx, types.PrefixQuery{
			Pattern: PrefixPattern(prefix),
			JobID:   jobID,
			Limit:   SuggestionLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to suggest candidates: %w", err)
		}

		set := newSuggestionSet()
		for _, c := range candidates {
			set.addMatching(prefix, c.Name, c.Email)
			set.addMatching(prefix, c.Skills...)
		}
		return set.list(), nil
	})
}

// cached serves key from the suggestion cache when one is configured.
// Cache failures are logged and fall through to load.
func (s *Service) cached(ctx context.Context, key string, load func() ([]string, error)) ([]string, error) {
	if s.cache != nil {
		values, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Printf("[search] suggestion cache get %q failed: %v", key, err)
		} else if ok {
			return values, nil
		}
	}

	values, err := load()
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, values); err != nil {
			log.Printf("[search] suggestion cache set %q failed: %v", key, err)
		}
	}
	return values, nil
}
