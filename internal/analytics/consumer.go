package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortlink/internal/messaging"
	"go.uber.org/zap"
)

// NewConsumers returns one consumer per analytics topic, each persisting into store.
func NewConsumers(subscriber message.Subscriber, store Store, logger *zap.Logger) []messaging.Runnable {
	return []messaging.Runnable{
		messaging.NewConsumer(subscriber, TopicAliasCreated, store.SaveAliasCreated, logger),
		messaging.NewConsumer(subscriber, TopicAliasAccessed, store.SaveAliasAccessed, logger),
		messaging.NewConsumer(subscriber, TopicAliasDeleted, store.SaveAliasDeleted, logger),
	}
}

// Publishers holds the typed publish functions for every analytics topic.
type Publishers struct {
	Created  messaging.Publish[AliasCreatedEvent]
	Accessed messaging.Publish[AliasAccessedEvent]
	Deleted  messaging.Publish[AliasDeletedEvent]
}

// NewPublishers binds every analytics topic to publisher.
func NewPublishers(publisher message.Publisher) Publishers {
	return Publishers{
		Created:  messaging.NewPublishFunc[AliasCreatedEvent](publisher, TopicAliasCreated),
		Accessed: messaging.NewPublishFunc[AliasAccessedEvent](publisher, TopicAliasAccessed),
		Deleted:  messaging.NewPublishFunc[AliasDeletedEvent](publisher, TopicAliasDeleted),
	}
}
