package alias

import (
	"context"
	"time"
)

// Repository persists alias records.
type Repository interface {
	// Create stores a new record. It returns ErrConflict when the short id is taken.
	Create(ctx context.Context, record *Record) error

	// GetByShortID returns the record regardless of its expiry, or ErrNotFound.
	GetByShortID(ctx context.Context, id ShortID) (*Record, error)

	// ListByOwner returns the owner's records, newest first by CreatedAt.
	ListByOwner(ctx context.Context, owner string) ([]*Record, error)

	// DeleteOwned removes the record only when it belongs to owner.
	// Missing and foreign records both yield ErrNotFound.
	DeleteOwned(ctx context.Context, id ShortID, owner string) error

	// DeleteExpired removes records whose ExpireAt is before cutoff and reports how many went.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
