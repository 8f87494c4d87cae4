package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"priceScope/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS price_quotes (
	id           BIGSERIAL PRIMARY KEY,
	kind         TEXT        NOT NULL,
	subject      TEXT        NOT NULL,
	currency     TEXT        NOT NULL,
	amm_version  TEXT        NOT NULL DEFAULT '',
	result       JSONB       NOT NULL,
	resolved_at  TIMESTAMPTZ NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS price_quotes_subject_idx ON price_quotes (kind, subject, resolved_at DESC);
`

// Store provides Postgres persistence for the quote log.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the price_quotes table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// PutQuotes inserts a batch of quotes.
func (s *Store) PutQuotes(ctx context.Context, quotes []model.QuoteRecord) error {
	if len(quotes) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, q := range quotes {
		resolvedAt, err := time.Parse(time.RFC3339Nano, q.ResolvedAt)
		if err != nil {
			return fmt.Errorf("parse resolved_at %q: %w", q.ResolvedAt, err)
		}
		batch.Queue(`
			INSERT INTO price_quotes (kind, subject, currency, amm_version, result, resolved_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			q.Kind,
			q.Subject,
			q.Currency,
			q.AMMVersion,
			[]byte(q.Result),
			resolvedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range quotes {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
