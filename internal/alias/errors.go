package alias

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no record matches, or when it belongs to someone else.
	ErrNotFound = errors.New("url not found")
	// ErrExpired is returned when the record exists but its expiry has passed.
	ErrExpired = errors.New("url has expired")
	// ErrConflict is returned by a Repository when the short id is already taken.
	ErrConflict = errors.New("short id already exists")

	// ErrInvalidInput is the parent of every validation failure.
	ErrInvalidInput = errors.New("invalid input")

	ErrMissingURL      = fmt.Errorf("%w: original url is required", ErrInvalidInput)
	ErrInvalidURL      = fmt.Errorf("%w: original url must be an absolute http or https url", ErrInvalidInput)
	ErrInvalidPrefix   = fmt.Errorf("%w: prefix may only contain letters, digits, '-' and '_'", ErrInvalidInput)
	ErrPrefixTooLong   = fmt.Errorf("%w: prefix is longer than %d characters", ErrInvalidInput, MaxPrefixLength)
	ErrInvalidDuration = fmt.Errorf("%w: duration must be a positive number of minutes", ErrInvalidInput)
	ErrDurationTooLong = fmt.Errorf("%w: duration exceeds the allowed maximum", ErrInvalidInput)
)
