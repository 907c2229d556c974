// internal/repository/postgres/db.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so repositories can
// run inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txStarter is implemented by *pgxpool.Pool.
type txStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Advisory lock keys. Category tree changes share one key; bookings lock per campsite.
const (
	lockCategoryTree int64 = 0x77_63_61_74 // "wcat"
)

// withTx runs fn in a transaction, committing on success. When lockSQL is
// set it is executed first so the transaction holds the lock until commit.
func withTx(ctx context.Context, starter txStarter, lockSQL string, lockArgs []any, fn func(tx pgx.Tx) error) error {
	tx, err := starter.Begin(ctx)
	if err != nil {
		return classify(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if lockSQL != "" {
		if _, err := tx.Exec(ctx, lockSQL, lockArgs...); err != nil {
			return classify(err, "acquire advisory lock")
		}
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return classify(err, "commit transaction")
	}
	return nil
}

// rowsAffected turns a zero-row write into ErrNotFound.
func rowsAffected(tag pgconn.CommandTag, err error, op string) error {
	if err != nil {
		return classify(err, op)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, errNotFound)
	}
	return nil
}
