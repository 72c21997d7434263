package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/serroba/shortlink/internal/analytics"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSubscriber hands out one channel per topic and fails the topics listed in failTopics.
type fakeSubscriber struct {
	mu         sync.Mutex
	channels   map[string]chan *message.Message
	failTopics map[string]error
	closeErr   error
	closed     bool
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{
		channels:   map[string]chan *message.Message{},
		failTopics: map[string]error{},
	}
}

func (s *fakeSubscriber) Subscribe(_ context.Context, topic string) (<-chan *message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failTopics[topic]; err != nil {
		return nil, err
	}

	return s.channel(topic), nil
}

func (s *fakeSubscriber) channel(topic string) chan *message.Message {
	ch, ok := s.channels[topic]
	if !ok {
		ch = make(chan *message.Message, 10)
		s.channels[topic] = ch
	}

	return ch
}

func (s *fakeSubscriber) send(topic string, msg *message.Message) {
	s.mu.Lock()
	ch := s.channel(topic)
	s.mu.Unlock()

	ch <- msg
}

func (s *fakeSubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		for _, ch := range s.channels {
			close(ch)
		}
	}

	return s.closeErr
}

func (s *fakeSubscriber) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

func accessedMessage(t *testing.T, shortID string) *message.Message {
	t.Helper()

	payload, err := json.Marshal(analytics.AliasAccessedEvent{
		ShortID:    shortID,
		AccessedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		ClientIP:   "203.0.113.9",
	})
	require.NoError(t, err)

	return message.NewMessage(uuid.NewString(), payload)
}

func shutdownWithin(t *testing.T, r messaging.Runnable, d time.Duration) error {
	t.Helper()

	errCh := make(chan error, 1)

	go func() { errCh <- r.Shutdown() }()

	select {
	case err := <-errCh:
		return err
	case <-time.After(d):
		t.Fatal("shutdown did not return")

		return nil
	}
}

func TestConsumer_Start(t *testing.T) {
	t.Run("subscribes to its topic", func(t *testing.T) {
		sub := newFakeSubscriber()
		consumer := messaging.NewConsumer(sub, analytics.TopicAliasAccessed,
			func(context.Context, *analytics.AliasAccessedEvent) error { return nil },
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))
		assert.Equal(t, analytics.TopicAliasAccessed, consumer.Topic())

		require.NoError(t, shutdownWithin(t, consumer, time.Second))
	})

	t.Run("a failed subscribe leaves shutdown non-blocking", func(t *testing.T) {
		sub := newFakeSubscriber()
		sub.failTopics[analytics.TopicAliasAccessed] = errors.New("subscribe failed")

		consumer := messaging.NewConsumer(sub, analytics.TopicAliasAccessed,
			func(context.Context, *analytics.AliasAccessedEvent) error { return nil },
			zap.NewNop(),
		)

		assert.EqualError(t, consumer.Start(context.Background()), "subscribe failed")
		assert.NoError(t, shutdownWithin(t, consumer, time.Second))
	})

	t.Run("shutdown before start is a no-op", func(t *testing.T) {
		consumer := messaging.NewConsumer(newFakeSubscriber(), analytics.TopicAliasAccessed,
			func(context.Context, *analytics.AliasAccessedEvent) error { return nil },
			zap.NewNop(),
		)

		assert.NoError(t, shutdownWithin(t, consumer, time.Second))
	})
}

func TestConsumer_HandleMessage(t *testing.T) {
	tests := map[string]struct {
		handlerErr error
		payload    func(t *testing.T) *message.Message
		wantAck    bool
	}{
		"acks a handled event": {
			payload: func(t *testing.T) *message.Message { return accessedMessage(t, "abc") },
			wantAck: true,
		},
		"nacks an undecodable payload": {
			payload: func(*testing.T) *message.Message {
				return message.NewMessage(uuid.NewString(), []byte("not json"))
			},
		},
		"nacks when the handler fails": {
			handlerErr: errors.New("store unavailable"),
			payload:    func(t *testing.T) *message.Message { return accessedMessage(t, "abc") },
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sub := newFakeSubscriber()
			received := make(chan analytics.AliasAccessedEvent, 1)

			consumer := messaging.NewConsumer(sub, analytics.TopicAliasAccessed,
				func(_ context.Context, event *analytics.AliasAccessedEvent) error {
					received <- *event

					return tt.handlerErr
				},
				zap.NewNop(),
			)

			require.NoError(t, consumer.Start(context.Background()))

			msg := tt.payload(t)
			sub.send(analytics.TopicAliasAccessed, msg)

			select {
			case <-msg.Acked():
				require.True(t, tt.wantAck, "message was acked")

				event := <-received
				assert.Equal(t, "abc", event.ShortID)
				assert.Equal(t, "203.0.113.9", event.ClientIP)
			case <-msg.Nacked():
				require.False(t, tt.wantAck, "message was nacked")
			case <-time.After(time.Second):
				t.Fatal("message was neither acked nor nacked")
			}

			require.NoError(t, shutdownWithin(t, consumer, time.Second))
		})
	}
}

func TestConsumer_Shutdown(t *testing.T) {
	t.Run("stops on cancel", func(t *testing.T) {
		consumer := messaging.NewConsumer(newFakeSubscriber(), analytics.TopicAliasDeleted,
			func(context.Context, *analytics.AliasDeletedEvent) error { return nil },
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))
		assert.NoError(t, shutdownWithin(t, consumer, time.Second))
	})

	t.Run("stops when the subscription closes", func(t *testing.T) {
		sub := newFakeSubscriber()
		consumer := messaging.NewConsumer(sub, analytics.TopicAliasDeleted,
			func(context.Context, *analytics.AliasDeletedEvent) error { return nil },
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))
		require.NoError(t, sub.Close())

		assert.NoError(t, shutdownWithin(t, consumer, time.Second))
	})

	t.Run("stops when the parent context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		consumer := messaging.NewConsumer(newFakeSubscriber(), analytics.TopicAliasDeleted,
			func(context.Context, *analytics.AliasDeletedEvent) error { return nil },
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(ctx))
		cancel()

		assert.NoError(t, shutdownWithin(t, consumer, time.Second))
	})
}
