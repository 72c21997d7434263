package alias

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultDuration applies when a create request names no duration.
	DefaultDuration = 10 * time.Minute
	// DefaultAttempts is how many short ids are tried before a collision is reported.
	DefaultAttempts = 3
)

// Options configures a Service. Zero values fall back to the package defaults.
type Options struct {
	BaseURL         string
	DefaultDuration time.Duration
	MaxDuration     time.Duration // zero means unbounded
	Attempts        int
	Now             func() time.Time
}

// CreateRequest describes a new alias.
type CreateRequest struct {
	OriginalURL     string
	Owner           string
	DurationMinutes int
	Prefix          string
}

// Service implements the alias lifecycle on top of a Repository.
type Service struct {
	repo     Repository
	generate Generator
	baseURL  string
	duration time.Duration
	maxTTL   time.Duration
	attempts int
	now      func() time.Time
}

// NewService creates an alias service.
func NewService(repo Repository, generate Generator, opts Options) *Service {
	s := &Service{
		repo:     repo,
		generate: generate,
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		duration: opts.DefaultDuration,
		maxTTL:   opts.MaxDuration,
		attempts: opts.Attempts,
		now:      opts.Now,
	}

	if s.duration <= 0 {
		s.duration = DefaultDuration
	}

	if s.attempts <= 0 {
		s.attempts = DefaultAttempts
	}

	if s.now == nil {
		s.now = time.Now
	}

	return s
}

// Create validates the request, computes the expiry and stores a record under a fresh short id.
// A taken short id is regenerated; ErrConflict surfaces once every attempt collided.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Record, error) {
	if strings.TrimSpace(req.OriginalURL) == "" {
		return nil, ErrMissingURL
	}

	if err := validateURL(req.OriginalURL); err != nil {
		return nil, err
	}

	if err := ValidatePrefix(req.Prefix); err != nil {
		return nil, err
	}

	ttl, err := s.ttl(req.DurationMinutes)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	record := &Record{
		OriginalURL: req.OriginalURL,
		Owner:       req.Owner,
		CreatedAt:   now,
		ExpireAt:    now.Add(ttl),
	}

	for range s.attempts {
		record.ShortID = s.generate.Next(req.Prefix)

		err = s.repo.Create(ctx, record)
		if err == nil {
			return record, nil
		}

		if !errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("save alias: %w", err)
		}
	}

	return nil, fmt.Errorf("save alias after %d attempts: %w", s.attempts, err)
}

// Resolve returns the live record for id. Records past their expiry yield ErrExpired
// even while the store still holds them.
func (s *Service) Resolve(ctx context.Context, id ShortID) (*Record, error) {
	record, err := s.repo.GetByShortID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !record.Live(s.now()) {
		return nil, ErrExpired
	}

	return record, nil
}

// ListByOwner returns every record owned by owner, newest first, including expired ones
// that have not been purged yet.
func (s *Service) ListByOwner(ctx context.Context, owner string) ([]*Record, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// Delete removes id when owner owns it. Ownership failures are reported as ErrNotFound.
func (s *Service) Delete(ctx context.Context, id ShortID, owner string) error {
	if owner == "" {
		return ErrNotFound
	}

	return s.repo.DeleteOwned(ctx, id, owner)
}

// ShortURL is the public redirect address of id.
func (s *Service) ShortURL(id ShortID) string {
	return fmt.Sprintf("%s/%s", s.baseURL, id)
}

// Expired reports whether record is past its expiry right now.
func (s *Service) Expired(record *Record) bool {
	return !record.Live(s.now())
}

func (s *Service) ttl(minutes int) (time.Duration, error) {
	switch {
	case minutes < 0:
		return 0, ErrInvalidDuration
	case minutes == 0:
		return s.duration, nil
	}

	ttl := time.Duration(minutes) * time.Minute
	if s.maxTTL > 0 && ttl > s.maxTTL {
		return 0, ErrDurationTooLong
	}

	return ttl, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}

	return nil
}
