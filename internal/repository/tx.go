// Package repository is the MySQL data access layer. Repositories do
// not open transactions themselves; callers run multi-step operations
// through TxRunner.WithTx, which stores the *sql.Tx in the context so
// that every repository call inside the closure executes on the same
// transaction. Row locks taken with SELECT ... FOR UPDATE therefore
// live until the closure commits or rolls back.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

type txKey struct{}

// DBTX is the subset of database operations shared by *sql.DB and
// *sql.Tx. Repository methods run against whichever the context holds.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxRunner begins and finishes transactions for the service layer.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner returns a TxRunner bound to the provided database.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// WithTx runs fn inside a transaction carried in the context. A nested
// call reuses the transaction already in flight, so a service can
// compose another service's operation without committing early. The
// transaction is rolled back when fn returns an error and committed
// otherwise.
func (r *TxRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// isDuplicateEntry reports whether err is MySQL error 1062, a unique
// key violation.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// q picks the executor for a repository call: the context's
// transaction when one is open, the bare pool otherwise.
func q(ctx context.Context, db *sql.DB) DBTX {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}
