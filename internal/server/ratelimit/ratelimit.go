// Package ratelimit throttles search traffic per caller. Each route policy
// keeps its own token bucket per caller, refilled by golang.org/x/time/rate.
package ratelimit

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Policy is the request budget for every route under Prefix.
type Policy struct {
	Name   string        // reported in X-RateLimit-Policy
	Prefix string        // request path prefix
	Rate   int           // sustained requests per Per; zero means unlimited
	Per    time.Duration // refill period for Rate
	Burst  int           // requests allowed back to back; defaults to Rate
}

// Unlimited reports whether the policy never throttles.
func (p Policy) Unlimited() bool {
	return p.Rate <= 0 || p.Per <= 0
}

func (p Policy) limit() rate.Limit {
	return rate.Limit(float64(p.Rate) / p.Per.Seconds())
}

func (p Policy) burst() int {
	if p.Burst > 0 {
		return p.Burst
	}
	return p.Rate
}

// Caller identifies who spends a budget. Authenticated requests are keyed
// by token subject so callers behind one NAT do not share a bucket.
type Caller struct {
	Subject string
	IP      string
}

func (c Caller) key() string {
	if c.Subject != "" {
		return "sub:" + c.Subject
	}
	return "ip:" + c.IP
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Policy     string
	Limit      int // bucket size; zero when the route is unlimited
	Remaining  int
	RetryAfter time.Duration // set only when denied
}

type bucketKey struct {
	caller string
	policy string
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out per-caller, per-policy token buckets.
type Limiter struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	buckets map[bucketKey]*bucket

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a Limiter. When cfg.IdleTTL is set, a background loop drops
// buckets that have not been used for that long; call Stop to end it.
func New(cfg Config) *Limiter {
	l := &Limiter{
		cfg:     cfg,
		now:     time.Now,
		buckets: make(map[bucketKey]*bucket),
		stop:    make(chan struct{}),
	}
	if cfg.Enabled && cfg.IdleTTL > 0 {
		l.wg.Add(1)
		go l.evictLoop(cfg.IdleTTL)
	}
	return l
}

// PolicyFor returns the policy with the longest prefix matching path.
// ok is false when no policy covers path.
func (l *Limiter) PolicyFor(path string) (p Policy, ok bool) {
	for _, candidate := range l.cfg.Policies {
		if candidate.Prefix == "" || !strings.HasPrefix(path, candidate.Prefix) {
			continue
		}
		if !ok || len(candidate.Prefix) > len(p.Prefix) {
			p, ok = candidate, true
		}
	}
	return p, ok
}

// Allow spends one token from the caller's bucket for path.
func (l *Limiter) Allow(c Caller, path string) Decision {
	if !l.cfg.Enabled || l.exempt(c) {
		return Decision{Allowed: true}
	}

	p, ok := l.PolicyFor(path)
	if !ok || p.Unlimited() {
		return Decision{Allowed: true, Policy: p.Name}
	}

	now := l.now()
	lim := l.bucket(bucketKey{caller: c.key(), policy: p.Name}, p, now)

	d := Decision{Policy: p.Name, Limit: p.burst()}
	if lim.AllowN(now, 1) {
		d.Allowed = true
		d.Remaining = int(lim.TokensAt(now))
		return d
	}

	missing := 1 - lim.TokensAt(now)
	d.RetryAfter = time.Duration(missing / float64(lim.Limit()) * float64(time.Second))
	return d
}

func (l *Limiter) exempt(c Caller) bool {
	return (c.Subject != "" && l.cfg.Exempt[c.Subject]) || (c.IP != "" && l.cfg.Exempt[c.IP])
}

func (l *Limiter) bucket(key bucketKey, p Policy, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(p.limit(), p.burst())}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim
}

// evict drops buckets last used before cutoff.
func (l *Limiter) evict(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}

func (l *Limiter) evictLoop(ttl time.Duration) {
	defer l.wg.Done()

	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evict(l.now().Add(-ttl))
		case <-l.stop:
			return
		}
	}
}

// Stop ends the eviction loop. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
	l.wg.Wait()
}
