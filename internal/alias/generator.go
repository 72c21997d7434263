package alias

import (
	"fmt"
	"regexp"

	"github.com/jaevor/go-nanoid"
)

// MaxPrefixLength bounds the caller-supplied part of a short id.
const MaxPrefixLength = 32

// DefaultCodeLength is the length of the random part.
const DefaultCodeLength = 6

var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)

// Generator produces the random part of a short id.
type Generator func() string

// NewGenerator returns a nanoid generator over the URL-safe alphabet.
func NewGenerator(length int) (Generator, error) {
	gen, err := nanoid.Standard(length)
	if err != nil {
		return nil, fmt.Errorf("create nanoid generator: %w", err)
	}

	return gen, nil
}

// Next builds a short id from prefix and a fresh random part.
func (g Generator) Next(prefix string) ShortID {
	return ShortID(prefix + g())
}

// ValidatePrefix checks that prefix keeps the short id URL-safe.
func ValidatePrefix(prefix string) error {
	if len(prefix) > MaxPrefixLength {
		return ErrPrefixTooLong
	}

	if !prefixPattern.MatchString(prefix) {
		return ErrInvalidPrefix
	}

	return nil
}
