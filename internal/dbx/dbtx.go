// Package dbx holds the small database/sql helpers shared by the backend
// (PostgreSQL) and front-end (SQLite) repositories.
package dbx

import (
	"context"
	"database/sql"
	"errors"
)

// DBTX is what repositories need from a connection. *sql.DB and *sql.Tx both
// satisfy it, so a repository can be bound to either.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction opened on db. The transaction is
// committed when fn returns nil and rolled back when it returns an error or
// panics; the panic is re-raised after the rollback.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    return tokens(tx).Delete(ctx, old)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}

// ExpectOneRow checks the rows-affected count of a write that targets a single
// row. Zero rows yields notFound, more than one is reported as an error.
func ExpectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	switch n {
	case 1:
		return nil
	case 0:
		return notFound
	default:
		return errors.New("more than one row affected")
	}
}
