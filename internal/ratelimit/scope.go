package ratelimit

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// Scope categorizes a request for rate limiting purposes.
type Scope string

const (
	// ScopeGlobal applies to every request.
	ScopeGlobal Scope = "global"
	// ScopeRedirect applies to public short id redirects.
	ScopeRedirect Scope = "redirect"
	// ScopeAPI applies to authenticated alias management.
	ScopeAPI Scope = "api"
	// ScopeAuth applies to signup and login.
	ScopeAuth Scope = "auth"
)

// MetadataKey is the key used to store rate limit config in operation metadata.
const MetadataKey = "rateLimit"

// EndpointConfig defines per-endpoint rate limit configuration.
// It is attached to Huma operations via the Metadata field.
type EndpointConfig struct {
	// Scope overrides path-based scope detection. It has no effect when Limits is set.
	Scope Scope

	// Limits replaces the policy limits for this endpoint when non-empty.
	Limits []LimitConfig

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// ScopeResolver determines which scopes apply to a given request.
type ScopeResolver interface {
	Resolve(ctx huma.Context) []Scope
}

// PathScopeResolver classifies requests by route: /api/auth/* is auth,
// the rest of /api/* is api and everything else is a redirect.
type PathScopeResolver struct{}

// NewPathScopeResolver creates a new path-based scope resolver.
func NewPathScopeResolver() *PathScopeResolver {
	return &PathScopeResolver{}
}

// Resolve returns the global scope plus the scope of the request path.
func (r *PathScopeResolver) Resolve(ctx huma.Context) []Scope {
	path := ctx.URL().Path
	if op := ctx.Operation(); op != nil && op.Path != "" {
		path = op.Path
	}

	switch {
	case strings.HasPrefix(path, "/api/auth/"):
		return []Scope{ScopeGlobal, ScopeAuth}
	case strings.HasPrefix(path, "/api/"):
		return []Scope{ScopeGlobal, ScopeAPI}
	default:
		return []Scope{ScopeGlobal, ScopeRedirect}
	}
}

// OperationScopeResolver resolves scopes by checking operation metadata first,
// then falling back to path-based detection.
type OperationScopeResolver struct {
	fallback *PathScopeResolver
}

// NewOperationScopeResolver creates a new operation-aware scope resolver.
func NewOperationScopeResolver() *OperationScopeResolver {
	return &OperationScopeResolver{
		fallback: NewPathScopeResolver(),
	}
}

// Resolve returns the scopes for a request, checking operation metadata first.
func (r *OperationScopeResolver) Resolve(ctx huma.Context) []Scope {
	if cfg := GetEndpointConfig(ctx); cfg != nil && cfg.Scope != "" {
		return []Scope{ScopeGlobal, cfg.Scope}
	}

	return r.fallback.Resolve(ctx)
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
