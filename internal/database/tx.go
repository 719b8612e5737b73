package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// WithinTx runs fn inside a transaction, committing on nil and rolling
// back on error or panic. Workflows use it to combine stock primitives
// with their own row writes in one unit of work.
func WithinTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
