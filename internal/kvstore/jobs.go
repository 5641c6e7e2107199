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

// newestJobsFirst orders by created_at desc, then id.
func newestJobsFirst(a, b types.Job) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID.String(), b.ID.String())
}

func limitJobs(jobs []types.Job, limit int) []types.Job {
	if limit > 0 && len(jobs) > limit {
		return jobs[:limit]
	}
	return jobs
}

// InsertJob stores a job, assigning an id, creation time and draft status when missing.
// Nil keywords are stored as an empty list.
func (s *Store) InsertJob(_ context.Context, job *types.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	if job.Status == "" {
		job.Status = types.JobStatusDraft
	}
	job.Keywords = nonNil(job.Keywords)

	err := s.db.Update(func(txn *badger.Txn) error {
		return put(txn, jobKey(job.ID), job)
	})
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// DeleteJob removes a job. Its candidates are left in place.
func (s *Store) DeleteJob(_ context.Context, id uuid.UUID) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(jobKey(id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// GetJob returns a job by id, or nil if it does not exist.
func (s *Store) GetJob(_ context.Context, id uuid.UUID) (*types.Job, error) {
	return get[types.Job](s.db, jobKey(id))
}

// MatchJobs returns jobs whose title matches m.Pattern or whose searchable title equals m.Normalized.
func (s *Store) MatchJobs(ctx context.Context, m types.FieldMatch) ([]types.Job, error) {
	re, err := compile(m.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid title pattern: %w", err)
	}

	var jobs []types.Job
	err = scan(ctx, s.db, jobPrefix, func(j *types.Job) error {
		if re.MatchString(j.Title) || (m.Normalized != "" && j.SearchableTitle == m.Normalized) {
			jobs = append(jobs, *j)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to match jobs: %w", err)
	}

	slices.SortFunc(jobs, newestJobsFirst)
	return limitJobs(jobs, m.Limit), nil
}

// TextSearchJobs scores every job against q.Terms and returns the matches by relevance.
func (s *Store) TextSearchJobs(ctx context.Context, q types.TextQuery) ([]types.Job, error) {
	terms := termSet(q.Terms)
	if len(terms) == 0 {
		return nil, nil
	}

	var boost func(string) bool
	if q.BoostPattern != "" {
		re, err := compile(q.BoostPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid boost pattern: %w", err)
		}
		boost = re.MatchString
	}

	var jobs []types.Job
	err := scan(ctx, s.db, jobPrefix, func(j *types.Job) error {
		score := textScore(terms, jobFields(j), types.JobTextWeights)
		if score == 0 {
			return nil
		}
		j.Score = score
		if boost != nil && boost(j.Title) {
			j.TitleBoost = types.TitleBoostValue
		}
		jobs = append(jobs, *j)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}

	slices.SortFunc(jobs, newestJobsFirst)
	slices.SortStableFunc(jobs, func(a, b types.Job) int {
		if c := cmp.Compare(b.TitleBoost, a.TitleBoost); c != 0 {
			return c
		}
		return cmp.Compare(b.Score, a.Score)
	})
	return limitJobs(jobs, q.Limit), nil
}

// SuggestJobs returns jobs whose title, department, location or any keyword matches q.Pattern.
func (s *Store) SuggestJobs(ctx context.Context, q types.PrefixQuery) ([]types.Job, error) {
	re, err := compile(q.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid prefix pattern: %w", err)
	}

	var jobs []types.Job
	err = scan(ctx, s.db, jobPrefix, func(j *types.Job) error {
		if anyMatch(re, j.Title, j.Department, j.Location) || anyMatch(re, j.Keywords...) {
			jobs = append(jobs, *j)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to suggest jobs: %w", err)
	}

	slices.SortFunc(jobs, newestJobsFirst)
	return limitJobs(jobs, q.Limit), nil
}

// FilterJobs applies equality filters and an optional text query.
func (s *Store) FilterJobs(ctx context.Context, f types.JobFilter) ([]types.Job, error) {
	terms := termSet(f.Query)
	if f.Query != "" && len(terms) == 0 {
		// only stop words
		return nil, nil
	}

	var jobs []types.Job
	err := scan(ctx, s.db, jobPrefix, func(j *types.Job) error {
		if f.Department != "" && j.Department != f.Department {
			return nil
		}
		if f.Location != "" && j.Location != f.Location {
			return nil
		}
		if f.Status != "" && j.Status != f.Status {
			return nil
		}
		if len(terms) > 0 {
			j.Score = textScore(terms, jobFields(j), types.JobTextWeights)
			if j.Score == 0 {
				return nil
			}
		}
		jobs = append(jobs, *j)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter jobs: %w", err)
	}

	slices.SortFunc(jobs, newestJobsFirst)
	if len(terms) > 0 {
		slices.SortStableFunc(jobs, func(a, b types.Job) int {
			return cmp.Compare(b.Score, a.Score)
		})
	}
	return limitJobs(jobs, f.Limit), nil
}

// JobSummaries looks up each id. Missing jobs are left out of the map.
func (s *Store) JobSummaries(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]types.JobSummary, error) {
	out := make(map[uuid.UUID]types.JobSummary, len(ids))
	for _, id := range ids {
		job, err := get[types.Job](s.db, jobKey(id))
		if err != nil {
			return nil, fmt.Errorf("failed to load job summaries: %w", err)
		}
		if job != nil {
			out[id] = job.Summary()
		}
	}
	return out, nil
}
