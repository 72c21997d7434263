package ratelimit

import (
	"context"
	"fmt"
)

// LimitExceeded describes the limit a request ran into.
type LimitExceeded struct {
	Scope  Scope
	Config LimitConfig
	Count  int64
}

// PolicyLimiter enforces rate limits based on a policy and resolved scopes.
type PolicyLimiter struct {
	store  Store
	policy *Policy
}

// NewPolicyLimiter creates a new policy-based rate limiter.
func NewPolicyLimiter(store Store, policy *Policy) *PolicyLimiter {
	return &PolicyLimiter{
		store:  store,
		policy: policy,
	}
}

// Allow records the request against every limit of every scope that has one.
// It stops at the first exceeded limit and reports it.
func (l *PolicyLimiter) Allow(ctx context.Context, clientKey string, scopes []Scope) (*LimitExceeded, error) {
	for _, scope := range scopes {
		limits, ok := l.policy.Limits[scope]
		if !ok {
			continue
		}

		exceeded, err := l.check(ctx, clientKey+":"+string(scope), scope, limits)
		if err != nil || exceeded != nil {
			return exceeded, err
		}
	}

	return nil, nil
}

// AllowCustom applies endpoint-specific limits instead of the policy. route keys the
// counters, so every request matching the same route template shares them per client.
func (l *PolicyLimiter) AllowCustom(
	ctx context.Context, clientKey, route string, limits []LimitConfig,
) (*LimitExceeded, error) {
	return l.check(ctx, clientKey+":custom:"+route, "", limits)
}

func (l *PolicyLimiter) check(ctx context.Context, prefix string, scope Scope, limits []LimitConfig) (*LimitExceeded, error) {
	for _, limit := range limits {
		key := fmt.Sprintf("%s:%d", prefix, limit.Window.Milliseconds())

		count, err := l.store.Record(ctx, key, limit.Window)
		if err != nil {
			return nil, err
		}

		if count > limit.Max {
			return &LimitExceeded{Scope: scope, Config: limit, Count: count}, nil
		}
	}

	return nil, nil
}
