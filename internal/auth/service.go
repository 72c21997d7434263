package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 72 // bcrypt ignores anything longer
)

// SignupRequest carries the fields of a new account.
type SignupRequest struct {
	Username string
	Email    string
	Password string
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
}

// Service registers users and exchanges credentials for bearer tokens.
type Service struct {
	users  UserRepository
	tokens *TokenManager
	cost   int
	now    func() time.Time
}

// NewService creates an auth service. cost is the bcrypt work factor; zero selects bcrypt.DefaultCost.
func NewService(users UserRepository, tokens *TokenManager, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &Service{
		users:  users,
		tokens: tokens,
		cost:   cost,
		now:    time.Now,
	}
}

// Signup validates req and stores a new user with a hashed password.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)

	if username == "" || email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	if len(req.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	if len(req.Password) > MaxPasswordLength {
		return nil, ErrLongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, err
		}

		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login checks the credentials and issues a bearer token.
// Unknown emails and wrong passwords are both reported as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingLogin
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, ExpiresAt: expiresAt, UserID: user.ID}, nil
}

// Verify returns the user id carried by a bearer token.
func (s *Service) Verify(token string) (string, error) {
	return s.tokens.Verify(token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
