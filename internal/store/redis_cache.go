package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/alias"
	"go.uber.org/zap"
)

// tombstoneTTL bounds how long a deleted id refuses to be cached again. It only has to
// outlast a lookup that read the record before the delete.
const tombstoneTTL = time.Minute

// cacheScript writes the cached hash unless the id was deleted meanwhile.
// KEYS[1] is the cache key, KEYS[2] its tombstone.
var cacheScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1],
	"short_id", ARGV[1],
	"original_url", ARGV[2],
	"owner", ARGV[3],
	"created_at", ARGV[4],
	"expire_at", ARGV[5])
redis.call("PEXPIRE", KEYS[1], ARGV[6])
return 1
`)

// RedisCacheRepository wraps an alias.Repository with Redis caching for lookups.
// Cached entries never outlive the record's expiry, so an expired alias always
// falls through to the store.
type RedisCacheRepository struct {
	store  alias.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store alias.Repository, client *redis.Client, ttl time.Duration, logger *zap.Logger,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "alias:",
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Create stores the record in the underlying store and warms the cache.
func (r *RedisCacheRepository) Create(ctx context.Context, record *alias.Record) error {
	if err := r.store.Create(ctx, record); err != nil {
		return err
	}

	r.cacheRecord(ctx, record)

	return nil
}

// GetByShortID checks the cache before hitting the store.
func (r *RedisCacheRepository) GetByShortID(ctx context.Context, id alias.ShortID) (*alias.Record, error) {
	if record, err := r.getFromCache(ctx, id); err == nil {
		return record, nil
	}

	record, err := r.store.GetByShortID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheRecord(ctx, record)

	return record, nil
}

// ListByOwner is not cached.
func (r *RedisCacheRepository) ListByOwner(ctx context.Context, owner string) ([]*alias.Record, error) {
	return r.store.ListByOwner(ctx, owner)
}

// DeleteOwned removes the record from the store and evicts it. The eviction leaves a
// tombstone so a lookup that read the record before the delete cannot cache it again.
func (r *RedisCacheRepository) DeleteOwned(ctx context.Context, id alias.ShortID, owner string) error {
	if err := r.store.DeleteOwned(ctx, id, owner); err != nil {
		return err
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.tombstoneKey(id), 1, tombstoneTTL)
		pipe.Del(ctx, r.prefix+string(id))

		return nil
	})
	if err != nil {
		r.logger.Warn("failed to evict alias from cache", zap.String("shortId", string(id)), zap.Error(err))
	}

	return nil
}

// DeleteExpired delegates to the store; cached copies expire on their own before the records do.
func (r *RedisCacheRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.store.DeleteExpired(ctx, cutoff)
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, id alias.ShortID) (*alias.Record, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(id)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, alias.ErrNotFound
	}

	return &alias.Record{
		ShortID:     alias.ShortID(result["short_id"]),
		OriginalURL: result["original_url"],
		Owner:       result["owner"],
		CreatedAt:   parseNanos(result["created_at"]),
		ExpireAt:    parseNanos(result["expire_at"]),
	}, nil
}

func (r *RedisCacheRepository) cacheRecord(ctx context.Context, record *alias.Record) {
	ttl := record.ExpireAt.Sub(r.now())
	if r.ttl > 0 && r.ttl < ttl {
		ttl = r.ttl
	}

	if ttl <= 0 {
		return
	}

	keys := []string{r.prefix + string(record.ShortID), r.tombstoneKey(record.ShortID)}

	err := cacheScript.Run(ctx, r.client, keys,
		string(record.ShortID),
		record.OriginalURL,
		record.Owner,
		record.CreatedAt.UnixNano(),
		record.ExpireAt.UnixNano(),
		ttl.Milliseconds(),
	).Err()
	if err != nil {
		r.logger.Warn("failed to cache alias", zap.String("shortId", string(record.ShortID)), zap.Error(err))
	}
}

func (r *RedisCacheRepository) tombstoneKey(id alias.ShortID) string {
	return r.prefix + string(id) + ":deleted"
}

func parseNanos(value string) time.Time {
	nanos, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}
	}

	return time.Unix(0, nanos).UTC()
}

// Shutdown is a no-op for RedisCacheRepository (client managed externally).
func (r *RedisCacheRepository) Shutdown() error {
	return nil
}

// Compile-time check.
var _ alias.Repository = (*RedisCacheRepository)(nil)
