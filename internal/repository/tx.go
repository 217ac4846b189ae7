package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgTxRunner は TxRunner の PostgreSQL 実装
type PgTxRunner struct {
	pool *pgxpool.Pool
}

// NewPgTxRunner は PgTxRunner を生成する
func NewPgTxRunner(pool *pgxpool.Pool) *PgTxRunner {
	return &PgTxRunner{pool: pool}
}

// InTx runs fn in a read-committed transaction. Callers take row locks
// (SELECT ... FOR UPDATE) for the rows they are about to change.
func (r *PgTxRunner) InTx(ctx context.Context, fn func(s *Store) error) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(NewPgStore(tx))
	})
}
