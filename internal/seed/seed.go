// Package seed loads jobs and candidates from a JSON fixture into a store.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/jonathan/talent-search/internal/schemas"
	"github.com/jonathan/talent-search/internal/search"
	"github.com/jonathan/talent-search/internal/types"
	"github.com/panjf2000/ants/v2"
)

// MaxResumeText is how much resume text is kept per candidate, in runes.
const MaxResumeText = 1000

// Writer is the store surface seeding needs.
type Writer interface {
	InsertJob(ctx context.Context, job *types.Job) error
	InsertCandidate(ctx context.Context, c *types.Candidate) error
}

// Fixture is the on-disk seed format: jobs with their candidates nested.
type Fixture struct {
	Jobs []FixtureJob `json:"jobs"`
}

// FixtureJob is a job plus the candidates who applied to it.
type FixtureJob struct {
	types.Job
	Candidates []types.Candidate `json:"candidates,omitempty"`
}

// Result counts what Seed wrote.
type Result struct {
	Jobs       int
	Candidates int
}

// Parse validates data against the fixture schema and decodes it.
func Parse(data []byte) (*Fixture, error) {
	if err := schemas.ValidateSeedFixture(data); err != nil {
		return nil, err
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return &f, nil
}

// LoadFile reads and parses a fixture file.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Parse(data)
}

// Seeder writes fixtures through a bounded worker pool.
type Seeder struct {
	w        Writer
	poolSize int
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithPoolSize sets the number of concurrent inserts. Default is runtime.NumCPU().
func WithPoolSize(size int) Option {
	return func(s *Seeder) {
		if size < 1 {
			size = 1
		}
		s.poolSize = size
	}
}

// New creates a Seeder writing to w.
func New(w Writer, opts ...Option) *Seeder {
	s := &Seeder{w: w, poolSize: runtime.NumCPU()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed inserts every job, then every candidate under its job.
// Candidates of a job that failed to insert are skipped.
// All insert errors are returned joined.
func (s *Seeder) Seed(ctx context.Context, f *Fixture) (Result, error) {
	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	jobs := make([]*types.Job, len(f.Jobs))
	for i := range f.Jobs {
		job := f.Jobs[i].Job
		job.SearchableTitle = search.Normalize(job.Title)
		jobs[i] = &job
	}

	jobErrs := s.run(ctx, pool, len(jobs), func(i int) error {
		if err := s.w.InsertJob(ctx, jobs[i]); err != nil {
			return fmt.Errorf("job %q: %w", jobs[i].Title, err)
		}
		return nil
	})

	var candidates []*types.Candidate
	res := Result{}
	for i := range f.Jobs {
		if jobErrs[i] != nil {
			continue
		}
		res.Jobs++
		for _, c := range f.Jobs[i].Candidates {
			c.JobID = jobs[i].ID
			c.SearchableName = search.Normalize(c.Name)
			c.ResumeText = truncate(c.ResumeText, MaxResumeText)
			candidates = append(candidates, &c)
		}
	}

	candErrs := s.run(ctx, pool, len(candidates), func(i int) error {
		if err := s.w.InsertCandidate(ctx, candidates[i]); err != nil {
			return fmt.Errorf("candidate %q: %w", candidates[i].Name, err)
		}
		return nil
	})
	for _, err := range candErrs {
		if err == nil {
			res.Candidates++
		}
	}

	log.Printf("[seed] Inserted %d/%d job(s), %d/%d candidate(s)", res.Jobs, len(jobs), res.Candidates, len(candidates))
	return res, errors.Join(append(jobErrs, candErrs...)...)
}

// run calls fn for 0..n-1 on the pool and returns each call's error by index.
func (s *Seeder) run(ctx context.Context, pool *ants.Pool, n int, fn func(i int) error) []error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			errs[i] = fn(i)
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("failed to submit insert: %w", err)
		}
	}
	wg.Wait()
	return errs
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
