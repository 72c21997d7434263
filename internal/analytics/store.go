package analytics

import "context"

// Store defines the interface for persisting analytics events.
type Store interface {
	SaveAliasCreated(ctx context.Context, event *AliasCreatedEvent) error
	SaveAliasAccessed(ctx context.Context, event *AliasAccessedEvent) error
	SaveAliasDeleted(ctx context.Context, event *AliasDeletedEvent) error
}
