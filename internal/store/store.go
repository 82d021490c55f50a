package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS recipes (
	id           uuid PRIMARY KEY,
	name         text NOT NULL,
	cuisine      text NOT NULL DEFAULT '',
	difficulty   text NOT NULL DEFAULT '',
	prep_time    integer NOT NULL DEFAULT 0,
	cook_time    integer NOT NULL DEFAULT 0,
	servings     integer NOT NULL DEFAULT 0,
	ingredients  text[] NOT NULL DEFAULT '{}',
	instructions text[] NOT NULL DEFAULT '{}',
	tips         text NOT NULL DEFAULT '',
	nutrition    text NOT NULL DEFAULT '',
	updated_at   timestamptz NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS recipes_name_lower_idx ON recipes (lower(name));
`

// Migrate creates the recipe catalogue tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
