package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/ratelimit"
	"go.uber.org/zap"
)

// PolicyRateLimiter returns a Huma middleware that applies policy-based rate limiting.
// It uses a ScopeResolver to determine which scopes apply to each request,
// then checks all applicable limits from the policy.
//
// Per-endpoint configuration can be provided via operation metadata using
// ratelimit.MetadataKey. This allows endpoints to:
//   - Disable rate limiting entirely (Disabled: true)
//   - Override the scope detection (Scope: ratelimit.ScopeAuth)
//   - Define custom limits (Limits: []ratelimit.LimitConfig{...})
func PolicyRateLimiter(
	api huma.API,
	limiter *ratelimit.PolicyLimiter,
	resolver ratelimit.ScopeResolver,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		path := operationPath(ctx)
		key := clientKey(ctx)

		var (
			exceeded *ratelimit.LimitExceeded
			err      error
		)

		cfg := ratelimit.GetEndpointConfig(ctx)

		switch {
		case cfg != nil && cfg.Disabled:
			logger.Debug("rate limiting disabled for endpoint",
				zap.String("path", path), zap.String("method", ctx.Method()))
			next(ctx)

			return
		case cfg != nil && len(cfg.Limits) > 0:
			// Counters are keyed by the route template, not the concrete path.
			exceeded, err = limiter.AllowCustom(ctx.Context(), key, path, cfg.Limits)
		default:
			exceeded, err = limiter.Allow(ctx.Context(), key, resolver.Resolve(ctx))
		}

		if err != nil {
			logger.Error("rate limit check failed", zap.String("path", path), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error")

			return
		}

		if exceeded != nil {
			rejectExceeded(api, ctx, exceeded, path, logger)

			return
		}

		next(ctx)
	}
}

// clientKey identifies a client by IP and User-Agent.
func clientKey(ctx huma.Context) string {
	hash := sha256.Sum256([]byte(clientIP(ctx) + "|" + ctx.Header("User-Agent")))

	return hex.EncodeToString(hash[:])
}

// operationPath returns the route template of the matched operation.
func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ctx.URL().Path
}

func rejectExceeded(
	api huma.API,
	ctx huma.Context,
	exceeded *ratelimit.LimitExceeded,
	path string,
	logger *zap.Logger,
) {
	scope := string(exceeded.Scope)
	if scope == "" {
		scope = "endpoint"
	}

	logger.Warn("rate limit exceeded",
		zap.String("path", path),
		zap.String("method", ctx.Method()),
		zap.String("scope", scope),
		zap.Int64("count", exceeded.Count),
		zap.Int64("max", exceeded.Config.Max),
		zap.Duration("window", exceeded.Config.Window),
		zap.String("client_ip", clientIP(ctx)),
	)

	ctx.SetHeader("Retry-After", fmt.Sprintf("%d", int(exceeded.Config.Window.Seconds())))

	msg := fmt.Sprintf("rate limit exceeded: %s scope, %d/%d requests in %s",
		scope, exceeded.Count, exceeded.Config.Max, exceeded.Config.Window)
	_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)
}
