package auth

import (
	"context"
	"time"
)

// User is a registered account.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// UserRepository persists users. Emails are stored lower-cased.
type UserRepository interface {
	// Create stores a new user. It returns ErrEmailTaken for a duplicate email.
	Create(ctx context.Context, user *User) error

	// GetByEmail returns the user or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
