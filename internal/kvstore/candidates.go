package kvstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/jonathan/talent-search/internal/types"
)

func newestCandidatesFirst(a, b types.Candidate) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID.String(), b.ID.String())
}

func limitCandidates(candidates []types.Candidate, limit int) []types.Candidate {
	if limit > 0 && len(candidates) > limit {
		return candidates[:limit]
	}
	return candidates
}

// InsertCandidate stores a candidate, assigning an id and creation time when missing.
func (s *Store) InsertCandidate(_ context.Context, c *types.Candidate) error {
	if c.JobID == uuid.Nil {
		return fmt.Errorf("candidate %q has no job id", c.Name)
	}
	if c.MatchScore < types.MinMatchScore || c.MatchScore > types.MaxMatchScore {
		return fmt.Errorf("candidate %q match score %d out of range", c.Name, c.MatchScore)
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.Skills = nonNil(c.Skills)

	// enrichment is computed per request, never stored
	rec := *c
	rec.Job = nil

	err := s.db.Update(func(txn *badger.Txn) error {
		return put(txn, candidateKey(rec.ID), &rec)
	})
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

// MatchCandidates returns candidates whose name matches m.Pattern or whose searchable name equals m.Normalized.
func (s *Store) MatchCandidates(ctx context.Context, m types.FieldMatch) ([]types.Candidate, error) {
	re, err := compile(m.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid name pattern: %w", err)
	}

	var candidates []types.Candidate
	err = scan(ctx, s.db, candidatePrefix, func(c *types.Candidate) error {
		if re.MatchString(c.Name) || (m.Normalized != "" && c.SearchableName == m.Normalized) {
			candidates = append(candidates, *c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to match candidates: %w", err)
	}

	slices.SortFunc(candidates, newestCandidatesFirst)
	return limitCandidates(candidates, m.Limit), nil
}

// TextSearchCandidates scores every candidate against q.Terms and returns the matches by relevance.
// BoostPattern does not apply to candidates.
func (s *Store) TextSearchCandidates(ctx context.Context, q types.TextQuery) ([]types.Candidate, error) {
	terms := termSet(q.Terms)
	if len(terms) == 0 {
		return nil, nil
	}

	var candidates []types.Candidate
	err := scan(ctx, s.db, candidatePrefix, func(c *types.Candidate) error {
		c.Score = textScore(terms, candidateFields(c), types.CandidateTextWeights)
		if c.Score > 0 {
			candidates = append(candidates, *c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}

	slices.SortFunc(candidates, newestCandidatesFirst)
	slices.SortStableFunc(candidates, func(a, b types.Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return limitCandidates(candidates, q.Limit), nil
}

// SuggestCandidates returns candidates whose name, email or any skill matches q.Pattern,
// optionally limited to one job.
func (s *Store) SuggestCandidates(ctx context.Context, q types.PrefixQuery) ([]types.Candidate, error) {
	re, err := compile(q.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid prefix pattern: %w", err)
	}

	var candidates []types.Candidate
	err = scan(ctx, s.db, candidatePrefix, func(c *types.Candidate) error {
		if q.JobID != nil && c.JobID != *q.JobID {
			return nil
		}
		if anyMatch(re, c.Name, c.Email) || anyMatch(re, c.Skills...) {
			candidates = append(candidates, *c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to suggest candidates: %w", err)
	}

	slices.SortFunc(candidates, newestCandidatesFirst)
	return limitCandidates(candidates, q.Limit), nil
}

// FilterCandidates applies job and score filters and an optional text query.
func (s *Store) FilterCandidates(ctx context.Context, f types.CandidateFilter) ([]types.Candidate, error) {
	terms := termSet(f.Query)
	if f.Query != "" && len(terms) == 0 {
		return nil, nil
	}

	var candidates []types.Candidate
	err := scan(ctx, s.db, candidatePrefix, func(c *types.Candidate) error {
		if f.JobID != nil && c.JobID != *f.JobID {
			return nil
		}
		if f.MinScore != nil && c.MatchScore < *f.MinScore {
			return nil
		}
		if f.MaxScore != nil && c.MatchScore > *f.MaxScore {
			return nil
		}
		if len(terms) > 0 {
			c.Score = textScore(terms, candidateFields(c), types.CandidateTextWeights)
			if c.Score == 0 {
				return nil
			}
		}
		candidates = append(candidates, *c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter candidates: %w", err)
	}

	slices.SortFunc(candidates, newestCandidatesFirst)
	if len(terms) > 0 {
		slices.SortStableFunc(candidates, func(a, b types.Candidate) int {
			return cmp.Compare(b.Score, a.Score)
		})
	}
	return limitCandidates(candidates, f.Limit), nil
}
