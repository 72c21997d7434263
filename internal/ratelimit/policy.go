package ratelimit

import "time"

// LimitConfig allows at most Max requests per Window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// Policy maps each scope to the limits enforced on it.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// DefaultPolicy is tuned for a public redirector: cheap redirects, moderate API use,
// and tight limits on credential endpoints.
func DefaultPolicy() *Policy {
	return &Policy{
		Limits: map[Scope][]LimitConfig{
			ScopeGlobal: {
				{Window: time.Minute, Max: 1200},
			},
			ScopeRedirect: {
				{Window: time.Minute, Max: 600},
			},
			ScopeAPI: {
				{Window: time.Minute, Max: 60},
				{Window: time.Hour, Max: 1000},
			},
			ScopeAuth: {
				{Window: time.Minute, Max: 10},
				{Window: time.Hour, Max: 50},
			},
		},
	}
}

// LongestWindow returns the largest window in the policy.
func (p *Policy) LongestWindow() time.Duration {
	var longest time.Duration

	for _, limits := range p.Limits {
		for _, limit := range limits {
			longest = max(longest, limit.Window)
		}
	}

	return longest
}
