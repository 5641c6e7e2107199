// Package maintenance keeps the normalized search columns in step with their display fields.
package maintenance

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher rewrites stale searchable_title and searchable_name values.
type Refresher interface {
	RefreshSearchableFields(ctx context.Context) (jobs, candidates int64, err error)
}

// Scheduler wraps robfig/cron and runs the refresh loop.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	spec      string // cron spec, e.g. "@every 15m0s"
	startup   sync.WaitGroup
}

// New creates a Scheduler that refreshes every interval.
func New(refresher Refresher, interval time.Duration) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cron.DefaultLogger)),
		refresher: refresher,
		spec:      fmt.Sprintf("@every %s", interval),
	}, nil
}

// Start registers the job and starts the scheduler. One refresh also runs
// immediately so stale rows are fixed without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[refresh] Cron started, spec: %s", s.spec)

	s.startup.Add(1)
	go func() {
		defer s.startup.Done()
		s.RunOnce(ctx)
	}()

	return nil
}

// Stop shuts down the scheduler and waits for any running refresh,
// including the one started by Start, to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.startup.Wait()
	log.Println("[refresh] Cron stopped")
}

// RunOnce performs a single refresh and logs the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	start := time.Now()
	jobs, candidates, err := s.refresher.RefreshSearchableFields(ctx)
	if err != nil {
		log.Printf("[refresh] Refresh failed: %v", err)
		return
	}
	log.Printf("[refresh] Updated %d job(s), %d candidate(s) in %v", jobs, candidates, time.Since(start))
}
