package store

import (
	"context"

	"github.com/serroba/shortlink/internal/analytics"
	"go.uber.org/zap"
)

// Noop is a no-op implementation of analytics.Store that logs events.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveAliasCreated(_ context.Context, event *analytics.AliasCreatedEvent) error {
	n.logger.Info("alias created event received",
		zap.String("shortId", event.ShortID),
		zap.String("originalUrl", event.OriginalURL),
		zap.String("owner", event.Owner),
		zap.Time("expireAt", event.ExpireAt),
	)

	return nil
}

func (n *Noop) SaveAliasAccessed(_ context.Context, event *analytics.AliasAccessedEvent) error {
	n.logger.Info("alias accessed event received",
		zap.String("shortId", event.ShortID),
		zap.Bool("expired", event.Expired),
		zap.Time("accessedAt", event.AccessedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

func (n *Noop) SaveAliasDeleted(_ context.Context, event *analytics.AliasDeletedEvent) error {
	n.logger.Info("alias deleted event received",
		zap.String("shortId", event.ShortID),
		zap.String("owner", event.Owner),
		zap.Time("deletedAt", event.DeletedAt),
	)

	return nil
}

var _ analytics.Store = (*Noop)(nil)
