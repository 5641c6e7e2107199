package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/jonathan/talent-search/internal/search"
	"github.com/jonathan/talent-search/internal/types"
)

// RefreshSearchableFields rewrites searchable_title and searchable_name wherever
// they have drifted from the display field. It returns how many records changed.
func (s *Store) RefreshSearchableFields(ctx context.Context) (jobs, candidates int64, err error) {
	var staleJobs []types.Job
	err = scan(ctx, s.db, jobPrefix, func(j *types.Job) error {
		if want := search.Normalize(j.Title); j.SearchableTitle != want {
			j.SearchableTitle = want
			staleJobs = append(staleJobs, *j)
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to scan jobs: %w", err)
	}

	var staleCandidates []types.Candidate
	err = scan(ctx, s.db, candidatePrefix, func(c *types.Candidate) error {
		if want := search.Normalize(c.Name); c.SearchableName != want {
			c.SearchableName = want
			staleCandidates = append(staleCandidates, *c)
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to scan candidates: %w", err)
	}

	wb := s.db.NewWriteBatch()
	for i := range staleJobs {
		if err := setBatch(wb, jobKey(staleJobs[i].ID), &staleJobs[i]); err != nil {
			wb.Cancel()
			return 0, 0, err
		}
	}
	for i := range staleCandidates {
		if err := setBatch(wb, candidateKey(staleCandidates[i].ID), &staleCandidates[i]); err != nil {
			wb.Cancel()
			return 0, 0, err
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, 0, fmt.Errorf("failed to write refreshed records: %w", err)
	}

	return int64(len(staleJobs)), int64(len(staleCandidates)), nil
}

func setBatch(wb *badger.WriteBatch, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return wb.Set(key, data)
}
