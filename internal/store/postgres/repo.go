package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the Postgres-backed transaction audit store.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}
