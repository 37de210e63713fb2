package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Beginner é satisfeito por pgxpool.Pool e pelos mocks de teste.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx executa fn dentro de uma transação explícita, com rollback
// garantido em caso de erro.
func WithTx(ctx context.Context, db Beginner, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
