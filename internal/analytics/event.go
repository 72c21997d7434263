package analytics

import "time"

const (
	TopicAliasCreated  = "alias.created"
	TopicAliasAccessed = "alias.accessed"
	TopicAliasDeleted  = "alias.deleted"
)

// AliasCreatedEvent is emitted when an alias is created.
type AliasCreatedEvent struct {
	ShortID     string    `json:"shortId"`
	OriginalURL string    `json:"originalUrl"`
	Owner       string    `json:"owner,omitempty"`
	Prefix      string    `json:"prefix,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpireAt    time.Time `json:"expireAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// AliasAccessedEvent is emitted on every redirect attempt, including expired ones.
type AliasAccessedEvent struct {
	ShortID    string    `json:"shortId"`
	Expired    bool      `json:"expired"`
	AccessedAt time.Time `json:"accessedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer"`
}

// AliasDeletedEvent is emitted when an owner deletes an alias.
type AliasDeletedEvent struct {
	ShortID   string    `json:"shortId"`
	Owner     string    `json:"owner"`
	DeletedAt time.Time `json:"deletedAt"`
}
