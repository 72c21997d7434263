package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink/internal/alias"
)

// uniqueViolation is the SQLSTATE PostgreSQL reports for a duplicate key.
const uniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of alias.Repository.
// The primary key on short_id provides the uniqueness guarantee.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed alias store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Create(ctx context.Context, record *alias.Record) error {
	query := `
		INSERT INTO aliases (short_id, original_url, owner_id, created_at, expire_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := p.pool.Exec(ctx, query,
		string(record.ShortID),
		record.OriginalURL,
		nullableString(record.Owner),
		record.CreatedAt,
		record.ExpireAt,
	)
	if isUniqueViolation(err) {
		return alias.ErrConflict
	}

	return err
}

func (p *PostgresStore) GetByShortID(ctx context.Context, id alias.ShortID) (*alias.Record, error) {
	query := `
		SELECT short_id, original_url, owner_id, created_at, expire_at
		FROM aliases
		WHERE short_id = $1
	`

	record, err := scanRecord(p.pool.QueryRow(ctx, query, string(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, alias.ErrNotFound
		}

		return nil, err
	}

	return record, nil
}

func (p *PostgresStore) ListByOwner(ctx context.Context, owner string) ([]*alias.Record, error) {
	query := `
		SELECT short_id, original_url, owner_id, created_at, expire_at
		FROM aliases
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := p.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*alias.Record, 0)

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

func (p *PostgresStore) DeleteOwned(ctx context.Context, id alias.ShortID, owner string) error {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM aliases WHERE short_id = $1 AND owner_id = $2`,
		string(id), owner,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return alias.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM aliases WHERE expire_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired aliases: %w", err)
	}

	return tag.RowsAffected(), nil
}

// Ping checks PostgreSQL connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func scanRecord(row pgx.Row) (*alias.Record, error) {
	var (
		record alias.Record
		id     string
		owner  *string
	)

	if err := row.Scan(&id, &record.OriginalURL, &owner, &record.CreatedAt, &record.ExpireAt); err != nil {
		return nil, err
	}

	record.ShortID = alias.ShortID(id)

	if owner != nil {
		record.Owner = *owner
	}

	return &record, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

var _ alias.Repository = (*PostgresStore)(nil)
