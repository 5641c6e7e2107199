package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives the limiter without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestLimiter gives search 60/min with a burst of 2 and suggestions
// 120/min with a burst of 4, so a token refills every second on search.
func newTestLimiter(t *testing.T, mutate ...func(*Config)) (*Limiter, *fakeClock) {
	t.Helper()

	cfg := Config{
		Enabled: true,
		Policies: []Policy{
			{Name: PolicySuggestions, Prefix: "/search/suggestions/", Rate: 120, Per: time.Minute, Burst: 4},
			{Name: PolicySearch, Prefix: "/search/", Rate: 60, Per: time.Minute, Burst: 2},
		},
	}
	for _, m := range mutate {
		m(&cfg)
	}

	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	l := New(cfg)
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

var ana = Caller{IP: "10.0.0.7"}

func TestLimiter_BurstThenRetryAfter(t *testing.T) {
	l, _ := newTestLimiter(t)

	first := l.Allow(ana, "/search/unified")
	assert.True(t, first.Allowed)
	assert.Equal(t, PolicySearch, first.Policy)
	assert.Equal(t, 2, first.Limit)
	assert.Equal(t, 1, first.Remaining)

	second := l.Allow(ana, "/search/unified")
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	denied := l.Allow(ana, "/search/unified")
	assert.False(t, denied.Allowed)
	assert.Equal(t, time.Second, denied.RetryAfter)
}

func TestLimiter_Refills(t *testing.T) {
	l, clock := newTestLimiter(t)

	l.Allow(ana, "/search/jobs")
	l.Allow(ana, "/search/jobs")
	require.False(t, l.Allow(ana, "/search/jobs").Allowed)

	clock.Advance(time.Second)
	assert.True(t, l.Allow(ana, "/search/jobs").Allowed)
	assert.False(t, l.Allow(ana, "/search/jobs").Allowed)

	clock.Advance(time.Hour)
	d := l.Allow(ana, "/search/jobs")
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining, "refill is capped at the burst")
}

func TestLimiter_SearchRoutesShareBudget(t *testing.T) {
	l, _ := newTestLimiter(t)

	assert.True(t, l.Allow(ana, "/search/jobs").Allowed)
	assert.True(t, l.Allow(ana, "/search/candidates").Allowed)
	assert.False(t, l.Allow(ana, "/search/unified").Allowed)
}

func TestLimiter_SuggestionsHaveOwnBudget(t *testing.T) {
	l, _ := newTestLimiter(t)

	l.Allow(ana, "/search/unified")
	l.Allow(ana, "/search/unified")
	require.False(t, l.Allow(ana, "/search/unified").Allowed)

	for i := 0; i < 4; i++ {
		d := l.Allow(ana, "/search/suggestions/jobs")
		require.True(t, d.Allowed, "keystroke %d", i)
		assert.Equal(t, PolicySuggestions, d.Policy)
	}
	denied := l.Allow(ana, "/search/suggestions/candidates")
	assert.False(t, denied.Allowed)
	assert.Equal(t, 500*time.Millisecond, denied.RetryAfter)
}

func TestLimiter_SubjectKeysBucket(t *testing.T) {
	l, _ := newTestLimiter(t)

	dashboard := Caller{Subject: "recruiting-dashboard", IP: "10.0.0.7"}
	reports := Caller{Subject: "weekly-reports", IP: "10.0.0.7"}

	l.Allow(dashboard, "/search/jobs")
	l.Allow(dashboard, "/search/jobs")
	require.False(t, l.Allow(dashboard, "/search/jobs").Allowed)

	assert.True(t, l.Allow(reports, "/search/jobs").Allowed, "same IP, different subject")
	assert.True(t, l.Allow(ana, "/search/jobs").Allowed, "anonymous callers are keyed by IP")

	roaming := Caller{Subject: "recruiting-dashboard", IP: "192.168.1.20"}
	assert.False(t, l.Allow(roaming, "/search/jobs").Allowed, "a subject keeps its budget across IPs")
}

func TestLimiter_Exempt(t *testing.T) {
	l, _ := newTestLimiter(t, func(c *Config) {
		c.Exempt = map[string]bool{"10.0.0.9": true, "batch-export": true}
	})

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow(Caller{IP: "10.0.0.9"}, "/search/jobs").Allowed)
		assert.True(t, l.Allow(Caller{Subject: "batch-export", IP: "10.0.0.1"}, "/search/jobs").Allowed)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, func(c *Config) { c.Enabled = false })

	for i := 0; i < 10; i++ {
		d := l.Allow(ana, "/search/unified")
		assert.True(t, d.Allowed)
		assert.Zero(t, d.Limit)
	}
}

func TestLimiter_UncoveredPathUnlimited(t *testing.T) {
	l, _ := newTestLimiter(t)

	for i := 0; i < 10; i++ {
		d := l.Allow(ana, "/metrics")
		assert.True(t, d.Allowed)
		assert.Empty(t, d.Policy)
	}
	assert.Empty(t, l.buckets)
}

func TestLimiter_PolicyFor(t *testing.T) {
	l, _ := newTestLimiter(t)

	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{path: "/search/suggestions/jobs", want: PolicySuggestions, wantOK: true},
		{path: "/search/suggestions/candidates", want: PolicySuggestions, wantOK: true},
		{path: "/search/unified", want: PolicySearch, wantOK: true},
		{path: "/search/jobs", want: PolicySearch, wantOK: true},
		{path: "/search", wantOK: false},
		{path: "/health", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, ok := l.PolicyFor(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, p.Name)
		})
	}
}

func TestLimiter_EvictIdleBuckets(t *testing.T) {
	l, clock := newTestLimiter(t)

	l.Allow(ana, "/search/jobs")
	clock.Advance(5 * time.Minute)
	l.Allow(Caller{IP: "10.0.0.8"}, "/search/jobs")

	assert.Equal(t, 1, l.evict(clock.Now().Add(-time.Minute)))
	assert.Len(t, l.buckets, 1)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := New(Config{Enabled: true, IdleTTL: time.Hour})

	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, func(c *Config) {
		c.Policies = []Policy{{Name: PolicySearch, Prefix: "/search/", Rate: 60, Per: time.Minute, Burst: 50}}
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow(ana, "/search/unified").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}
