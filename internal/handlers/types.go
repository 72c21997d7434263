package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Minutes is an alias lifetime. Clients send it as a JSON number or as a numeric string;
// an empty string means the default.
type Minutes int

// Schema accepts an integer or a string of digits.
func (Minutes) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{
		Description: "Minutes until the alias expires, as a number or a numeric string",
		Examples:    []any{10},
		OneOf: []*huma.Schema{
			{Type: huma.TypeInteger},
			{Type: huma.TypeString},
		},
	}
}

func (m *Minutes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*m = 0

		return nil
	}

	raw := string(data)

	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}

		raw = strings.TrimSpace(raw)
		if raw == "" {
			*m = 0

			return nil
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("duration must be a whole number of minutes, got %s", data)
	}

	*m = Minutes(n)

	return nil
}

// ShortenRequest is the request body for creating an alias.
type ShortenRequest struct {
	Body struct {
		OriginalURL string  `doc:"The URL to shorten"                     example:"https://example.com/very/long/path" json:"originalUrl" required:"false"`
		Duration    Minutes `json:"duration,omitempty"`
		Prefix      string  `doc:"Optional prefix of the generated short id" example:"promo-"                          json:"prefix,omitempty"`
	}
}

// ShortenResponse is the response for a successfully created alias.
type ShortenResponse struct {
	Body struct {
		ShortID     string    `doc:"The short id"         example:"promo-V1StGX"                      json:"shortId"`
		OriginalURL string    `doc:"The original URL"     example:"https://example.com/very/long/path" json:"originalUrl"`
		ShortURL    string    `doc:"The full short URL"   example:"http://localhost:8888/promo-V1StGX" json:"shortUrl"`
		ExpireAt    time.Time `doc:"When the alias stops redirecting"                                 json:"expireAt"`
	}
}

// AliasBody describes one alias owned by the caller.
type AliasBody struct {
	ShortID     string    `json:"shortId"`
	OriginalURL string    `json:"originalUrl"`
	ShortURL    string    `json:"shortUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpireAt    time.Time `json:"expireAt"`
	Expired     bool      `json:"expired"`
}

// ListAliasesResponse lists the caller's aliases, newest first.
type ListAliasesResponse struct {
	Body []AliasBody
}

// ShortIDRequest addresses an alias by its short id.
type ShortIDRequest struct {
	ShortID string `doc:"The short id" example:"promo-V1StGX" path:"shortId"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Body struct {
		Message string `json:"message" example:"url deleted"`
	}
}

// RedirectResponse sends the client to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}

// SignupRequest is the request body for creating an account.
type SignupRequest struct {
	Body struct {
		Username string `json:"username" required:"false" example:"ada"`
		Email    string `json:"email"    required:"false" example:"ada@example.com"`
		Password string `json:"password" required:"false" example:"correct horse"`
	}
}

// LoginRequest is the request body for exchanging credentials for a token.
type LoginRequest struct {
	Body struct {
		Email    string `json:"email"    required:"false" example:"ada@example.com"`
		Password string `json:"password" required:"false" example:"correct horse"`
	}
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	Body struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
}
