package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/auth"
	"go.uber.org/zap"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	accounts *auth.Service
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accounts *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

func (h *AuthHandler) Signup(ctx context.Context, req *SignupRequest) (*MessageResponse, error) {
	user, err := h.accounts.Signup(ctx, auth.SignupRequest{
		Username: req.Body.Username,
		Email:    req.Body.Email,
		Password: req.Body.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidInput) || errors.Is(err, auth.ErrEmailTaken) {
			return nil, huma.Error400BadRequest(err.Error())
		}

		h.logger.Error("failed to sign up", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to create user")
	}

	h.logger.Info("user signed up", zap.String("userId", user.ID))

	resp := &MessageResponse{}
	resp.Body.Message = "user created"

	return resp, nil
}

func (h *AuthHandler) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	session, err := h.accounts.Login(ctx, req.Body.Email, req.Body.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			return nil, huma.Error400BadRequest(err.Error())
		case errors.Is(err, auth.ErrInvalidCredentials):
			return nil, huma.Error401Unauthorized(err.Error())
		}

		h.logger.Error("failed to log in", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to log in")
	}

	resp := &LoginResponse{}
	resp.Body.Token = session.Token
	resp.Body.ExpiresAt = session.ExpiresAt

	return resp, nil
}
