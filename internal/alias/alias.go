package alias

import "time"

// ShortID identifies an alias. It is the optional prefix followed by the random part.
type ShortID string

// Record is a short alias pointing at an original URL until it expires.
type Record struct {
	ShortID     ShortID
	OriginalURL string
	Owner       string // empty for unowned records
	CreatedAt   time.Time
	ExpireAt    time.Time
}

// Live reports whether the record may still be resolved at t.
// A record stays live up to and including its expiry instant.
func (r *Record) Live(t time.Time) bool {
	return !t.After(r.ExpireAt)
}
