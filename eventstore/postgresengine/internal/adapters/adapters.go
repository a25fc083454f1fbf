// Package adapters lets the postgres engine run on pgxpool.Pool, *sql.DB or *sqlx.DB
// behind one small interface.
package adapters

import (
	"context"
	"database/sql"
)

// DBAdapter is what the engine needs from a connection: run a select, run a statement.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
}

type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DBResult interface {
	RowsAffected() (int64, error)
}

// queryExecer is satisfied by both *sql.DB and *sqlx.DB.
type queryExecer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type stdAdapter struct {
	db queryExecer
}

func (a stdAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (a stdAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return a.db.ExecContext(ctx, query)
}
