package auth

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// ErrInvalidInput is the parent of every validation failure.
	ErrInvalidInput = errors.New("invalid input")

	ErrMissingFields = fmt.Errorf("%w: username, email and password are required", ErrInvalidInput)
	ErrInvalidEmail  = fmt.Errorf("%w: email address is malformed", ErrInvalidInput)
	ErrWeakPassword  = fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	ErrLongPassword  = fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, MaxPasswordLength)
	ErrMissingLogin  = fmt.Errorf("%w: email and password are required", ErrInvalidInput)
)
