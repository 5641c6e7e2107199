package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Policy names
const (
	PolicySuggestions = "suggestions"
	PolicySearch      = "search"
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled  bool
	Policies []Policy
	// IdleTTL drops buckets unused for this long. Zero keeps them forever.
	IdleTTL time.Duration
	// Exempt lists client IPs and token subjects that are never limited.
	Exempt map[string]bool
}

// DefaultPolicies returns the budgets for the search routes. Typeahead sends
// one request per keystroke, so suggestions refill faster and burst higher
// than unified and faceted search.
func DefaultPolicies() []Policy {
	return []Policy{
		{Name: PolicySuggestions, Prefix: "/search/suggestions/", Rate: 600, Per: time.Minute, Burst: 60},
		{Name: PolicySearch, Prefix: "/search/", Rate: 120, Per: time.Minute, Burst: 20},
	}
}

// FromEnv builds a Config from the RATE_LIMIT_* variables that getenv
// returns, starting from DefaultPolicies:
//
//	RATE_LIMIT_ENABLED             true unless set to a false value
//	RATE_LIMIT_SEARCH_PER_MINUTE   search policy rate
//	RATE_LIMIT_SEARCH_BURST        search policy burst
//	RATE_LIMIT_SUGGEST_PER_MINUTE  suggestions policy rate
//	RATE_LIMIT_SUGGEST_BURST       suggestions policy burst
//	RATE_LIMIT_IDLE_TTL            bucket eviction age, default 10m
//	RATE_LIMIT_EXEMPT              comma-separated IPs or token subjects
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Enabled:  true,
		Policies: DefaultPolicies(),
		IdleTTL:  10 * time.Minute,
		Exempt:   parseList(getenv("RATE_LIMIT_EXEMPT")),
	}

	if v := getenv("RATE_LIMIT_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("config error: invalid RATE_LIMIT_ENABLED %q: %w", v, err)
		}
		cfg.Enabled = enabled
	}

	if v := getenv("RATE_LIMIT_IDLE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl < 0 {
			return Config{}, fmt.Errorf("config error: invalid RATE_LIMIT_IDLE_TTL %q", v)
		}
		cfg.IdleTTL = ttl
	}

	overrides := []struct {
		key    string
		policy string
		set    func(*Policy, int)
	}{
		{"RATE_LIMIT_SEARCH_PER_MINUTE", PolicySearch, func(p *Policy, n int) { p.Rate = n }},
		{"RATE_LIMIT_SEARCH_BURST", PolicySearch, func(p *Policy, n int) { p.Burst = n }},
		{"RATE_LIMIT_SUGGEST_PER_MINUTE", PolicySuggestions, func(p *Policy, n int) { p.Rate = n }},
		{"RATE_LIMIT_SUGGEST_BURST", PolicySuggestions, func(p *Policy, n int) { p.Burst = n }},
	}
	for _, o := range overrides {
		v := getenv(o.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("config error: %s must be a non-negative integer, got %q", o.key, v)
		}
		for i := range cfg.Policies {
			if cfg.Policies[i].Name == o.policy {
				o.set(&cfg.Policies[i], n)
			}
		}
	}

	return cfg, nil
}

func parseList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result[item] = true
		}
	}
	return result
}
