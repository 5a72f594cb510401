package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func MustOpen(ctx context.Context, dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect fail")
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping fail")
	}
	return pool
}

// EnsureSchema creates the audit table when it does not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS transactions (
		id                   UUID PRIMARY KEY,
		gateway              TEXT NOT NULL,
		action               TEXT NOT NULL,
		amount               BIGINT NOT NULL,
		currency             TEXT NOT NULL,
		success              BOOLEAN NOT NULL,
		message              TEXT NOT NULL DEFAULT '',
		authorization_handle TEXT,
		raw_response         JSONB NOT NULL DEFAULT '{}',
		created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	return err
}
