package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/ratelimit"
)

// BearerScheme names the security scheme protected operations require.
const BearerScheme = "bearer"

// Middleware is a huma operation middleware.
type Middleware = func(ctx huma.Context, next func(huma.Context))

// RegisterSecurity declares the bearer token scheme in the OpenAPI document.
func RegisterSecurity(api huma.API) {
	oapi := api.OpenAPI()
	if oapi.Components == nil {
		oapi.Components = &huma.Components{}
	}

	if oapi.Components.SecuritySchemes == nil {
		oapi.Components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}

	oapi.Components.SecuritySchemes[BearerScheme] = &huma.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
	}
}

// RegisterAuthRoutes registers signup and login.
func RegisterAuthRoutes(api huma.API, authHandler *AuthHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "signup",
		Method:      http.MethodPost,
		Path:        "/api/auth/signup",
		Summary:     "Create an account",
		Tags:        []string{"Auth"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeAuth},
		},
	}, authHandler.Signup)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Exchange credentials for a bearer token",
		Tags:        []string{"Auth"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeAuth},
		},
	}, authHandler.Login)
}

// RegisterAliasRoutes registers the alias endpoints. requireAuth guards every owner operation;
// redirects are public under both / and /api.
func RegisterAliasRoutes(api huma.API, aliasHandler *AliasHandler, requireAuth Middleware) {
	security := []map[string][]string{{BearerScheme: {}}}

	huma.Register(api, huma.Operation{
		OperationID: "shorten",
		Method:      http.MethodPost,
		Path:        "/api/shorten",
		Summary:     "Create a short alias",
		Description: "Creates an alias that redirects to originalUrl until it expires.",
		Tags:        []string{"URLs"},
		Security:    security,
		Middlewares: huma.Middlewares{requireAuth},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeAPI},
		},
	}, aliasHandler.Shorten)

	huma.Register(api, huma.Operation{
		OperationID: "list-my-urls",
		Method:      http.MethodGet,
		Path:        "/api/my-urls",
		Summary:     "List the caller's aliases",
		Tags:        []string{"URLs"},
		Security:    security,
		Middlewares: huma.Middlewares{requireAuth},
	}, aliasHandler.ListMine)

	huma.Register(api, huma.Operation{
		OperationID: "delete-url",
		Method:      http.MethodDelete,
		Path:        "/api/{shortId}",
		Summary:     "Delete an alias",
		Description: "Deletes an alias owned by the caller. Aliases owned by someone else answer 404.",
		Tags:        []string{"URLs"},
		Security:    security,
		Middlewares: huma.Middlewares{requireAuth},
	}, aliasHandler.Delete)

	// Relaxed limits for the high-traffic public read path.
	redirects := []struct{ id, path string }{
		{id: "redirect", path: "/{shortId}"},
		{id: "redirect-api", path: "/api/{shortId}"},
	}

	for _, r := range redirects {
		huma.Register(api, huma.Operation{
			OperationID:   r.id,
			Method:        http.MethodGet,
			Path:          r.path,
			Summary:       "Redirect to the original URL",
			Description:   "Answers 302 while the alias is live, 410 once it expired and 404 when it never existed.",
			Tags:          []string{"URLs"},
			DefaultStatus: http.StatusFound,
			Metadata: map[string]any{
				ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeRedirect},
			},
		}, aliasHandler.Redirect)
	}
}
