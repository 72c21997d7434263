package alias_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/serroba/shortlink/internal/alias"
	"github.com/serroba/shortlink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// sequence returns the given random parts in order, repeating the last one.
func sequence(parts ...string) alias.Generator {
	var (
		mu sync.Mutex
		i  int
	)

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		part := parts[min(i, len(parts)-1)]
		i++

		return part
	}
}

func newService(t *testing.T, repo alias.Repository, gen alias.Generator) (*alias.Service, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)}

	if gen == nil {
		var err error

		gen, err = alias.NewGenerator(alias.DefaultCodeLength)
		require.NoError(t, err)
	}

	return alias.NewService(repo, gen, alias.Options{
		BaseURL:     "http://sho.rt/",
		MaxDuration: 30 * 24 * time.Hour,
		Now:         clock.Now,
	}), clock
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the record with the default duration", func(t *testing.T) {
		svc, clock := newService(t, store.NewMemoryStore(), nil)

		record, err := svc.Create(ctx, alias.CreateRequest{OriginalURL: "https://example.com", Owner: "u1"})

		require.NoError(t, err)
		assert.Len(t, string(record.ShortID), alias.DefaultCodeLength)
		assert.Equal(t, "u1", record.Owner)
		assert.True(t, record.CreatedAt.Equal(clock.Now()))
		assert.Equal(t, alias.DefaultDuration, record.ExpireAt.Sub(record.CreatedAt))
		assert.Equal(t, "http://sho.rt/"+string(record.ShortID), svc.ShortURL(record.ShortID))
	})

	t.Run("honours the requested duration", func(t *testing.T) {
		svc, _ := newService(t, store.NewMemoryStore(), nil)

		record, err := svc.Create(ctx, alias.CreateRequest{OriginalURL: "https://example.com", DurationMinutes: 90})

		require.NoError(t, err)
		assert.Equal(t, 90*time.Minute, record.ExpireAt.Sub(record.CreatedAt))
	})

	t.Run("prefix starts the short id", func(t *testing.T) {
		svc, _ := newService(t, store.NewMemoryStore(), nil)

		record, err := svc.Create(ctx, alias.CreateRequest{OriginalURL: "https://example.com", Prefix: "promo-"})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(record.ShortID), "promo-"))
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		svc, _ := newService(t, store.NewMemoryStore(), nil)

		tests := []struct {
			name string
			req  alias.CreateRequest
			want error
		}{
			{name: "empty url", req: alias.CreateRequest{OriginalURL: "  "}, want: alias.ErrMissingURL},
			{name: "relative url", req: alias.CreateRequest{OriginalURL: "example.com/path"}, want: alias.ErrInvalidURL},
			{name: "unsupported scheme", req: alias.CreateRequest{OriginalURL: "ftp://example.com"}, want: alias.ErrInvalidURL},
			{
				name: "prefix with spaces",
				req:  alias.CreateRequest{OriginalURL: "https://example.com", Prefix: "a b"},
				want: alias.ErrInvalidPrefix,
			},
			{
				name: "prefix too long",
				req:  alias.CreateRequest{OriginalURL: "https://example.com", Prefix: strings.Repeat("p", alias.MaxPrefixLength+1)},
				want: alias.ErrPrefixTooLong,
			},
			{
				name: "negative duration",
				req:  alias.CreateRequest{OriginalURL: "https://example.com", DurationMinutes: -1},
				want: alias.ErrInvalidDuration,
			},
			{
				name: "duration above maximum",
				req:  alias.CreateRequest{OriginalURL: "https://example.com", DurationMinutes: 31 * 24 * 60},
				want: alias.ErrDurationTooLong,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Create(ctx, tt.req)

				require.ErrorIs(t, err, tt.want)
				assert.ErrorIs(t, err, alias.ErrInvalidInput)
			})
		}
	})

	t.Run("regenerates on collision", func(t *testing.T) {
		repo := store.NewMemoryStore()
		svc, _ := newService(t, repo, sequence("taken", "taken", "fresh"))

		_, err := svc.Create(ctx, alias.CreateRequest{OriginalURL: "https://example.com/1"})
		require.NoError(t, err)

		record, err := svc.Create(ctx, alias.CreateRequest{OriginalURL: "https://example.com/2"})
		require.NoError(t, err)
		assert.Equal(t, alias.ShortID("fresh"), record.ShortID)
	})

	t.Run("gives up after the configured attempts", func(t *testing.T) {
		svc, _ := newService(t, store.NewMemoryStore(), sequence("same"))

		_, err := svc.Create(ctx, alias.CreateRequest{OriginalURL: "https://example.com/1"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, alias.CreateRequest{OriginalURL: "https://example.com/2"})
		assert.ErrorIs(t, err, alias.ErrConflict)
		assert.NotErrorIs(t, err, alias.ErrInvalidInput)
	})

	t.Run("concurrent creates with a colliding generator succeed exactly once", func(t *testing.T) {
		svc, _ := newService(t, store.NewMemoryStore(), sequence("X"))

		var (
			wg      sync.WaitGroup
			results = make(chan error, 2)
		)

		for range 2 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := svc.Create(ctx, alias.CreateRequest{OriginalURL: "https://example.com", Prefix: "promo-"})
				results <- err
			}()
		}

		wg.Wait()
		close(results)

		var succeeded, conflicted int

		for err := range results {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, alias.ErrConflict):
				conflicted++
			}
		}

		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, conflicted)
	})
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves until expiry then reports expired", func(t *testing.T) {
		svc, clock := newService(t, store.NewMemoryStore(), nil)

		record, err := svc.Create(ctx, alias.CreateRequest{OriginalURL: "https://example.com", DurationMinutes: 1})
		require.NoError(t, err)

		got, err := svc.Resolve(ctx, record.ShortID)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.OriginalURL)

		clock.Advance(time.Minute)

		_, err = svc.Resolve(ctx, record.ShortID)
		require.NoError(t, err, "live at the expiry instant")

		clock.Advance(time.Minute)

		_, err = svc.Resolve(ctx, record.ShortID)
		assert.ErrorIs(t, err, alias.ErrExpired)
		assert.True(t, svc.Expired(record))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, _ := newService(t, store.NewMemoryStore(), nil)

		_, err := svc.Resolve(ctx, "missing")
		assert.ErrorIs(t, err, alias.ErrNotFound)
	})
}

func TestService_ListByOwner(t *testing.T) {
	ctx := context.Background()
	svc, clock := newService(t, store.NewMemoryStore(), nil)

	var ids []alias.ShortID

	for i := range 3 {
		record, err := svc.Create(ctx, alias.CreateRequest{OriginalURL: "https://example.com", Owner: "u1", DurationMinutes: i + 1})
		require.NoError(t, err)

		ids = append(ids, record.ShortID)

		clock.Advance(time.Second)
	}

	_, err := svc.Create(ctx, alias.CreateRequest{OriginalURL: "https://example.com", Owner: "u2"})
	require.NoError(t, err)

	clock.Advance(time.Hour)

	records, err := svc.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 3, "expired records are still listed")

	for i, record := range records {
		assert.Equal(t, ids[len(ids)-1-i], record.ShortID)
	}
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, store.NewMemoryStore(), nil)

	record, err := svc.Create(ctx, alias.CreateRequest{OriginalURL: "https://example.com", Owner: "u1"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, record.ShortID, "u2"), alias.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, record.ShortID, ""), alias.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing", "u1"), alias.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, record.ShortID, "u1"))

	_, err = svc.Resolve(ctx, record.ShortID)
	assert.ErrorIs(t, err, alias.ErrNotFound)
}
