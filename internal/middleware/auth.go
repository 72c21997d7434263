package middleware

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/handlers"
	"go.uber.org/zap"
)

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireBearer returns a Huma middleware that rejects requests without a valid
// "Authorization: Bearer <token>" header and stores the caller's user id in the context.
func RequireBearer(
	api huma.API, verifier TokenVerifier, logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token, ok := bearerToken(ctx.Header("Authorization"))
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "authentication required")

			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			logger.Debug("rejected bearer token", zap.String("client_ip", clientIP(ctx)), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid token")

			return
		}

		next(huma.WithContext(ctx, handlers.ContextWithUserID(ctx.Context(), userID)))
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
