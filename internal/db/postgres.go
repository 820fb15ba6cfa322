package db

import (
	"context"
	"errors"
	"time"

	"backend-courseplay/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPostgresDisabled = errors.New("postgres url not configured")

var (
	newPoolFn  = pgxpool.New
	pingPoolFn = func(ctx context.Context, pool *pgxpool.Pool) error { return pool.Ping(ctx) }
)

func ConnectPostgres(cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.PostgresURL == "" {
		return nil, ErrPostgresDisabled
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := newPoolFn(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, err
	}
	if err := pingPoolFn(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

const coursesSchema = `
CREATE TABLE IF NOT EXISTS courses (
	name        TEXT PRIMARY KEY,
	gpx         BYTEA NOT NULL,
	point_count INTEGER NOT NULL,
	length_m    DOUBLE PRECISION NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the tables the course catalog needs.
func EnsureSchema(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, coursesSchema)
	return err
}
