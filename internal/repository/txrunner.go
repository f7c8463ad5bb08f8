package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxTxRunner struct {
	pool *pgxpool.Pool
}

// NewPgxTxRunner returns a TxRunner backed by a pgx connection pool. Each
// InTx call runs fn inside a ReadCommitted transaction; the versioned game
// update carries the real concurrency guarantee.
func NewPgxTxRunner(pool *pgxpool.Pool) TxRunner {
	return &pgxTxRunner{pool: pool}
}

func (r *pgxTxRunner) InTx(ctx context.Context, fn func(tx DBTX) error) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(tx)
	})
}
