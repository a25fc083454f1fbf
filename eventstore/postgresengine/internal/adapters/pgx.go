package adapters

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxAdapter struct {
	pool *pgxpool.Pool
}

// NewPGXAdapter wraps a pgx pool.
func NewPGXAdapter(pool *pgxpool.Pool) DBAdapter {
	return pgxAdapter{pool: pool}
}

func (p pgxAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return pgxRows{rows: rows}, nil
}

func (p pgxAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	tag, err := p.pool.Exec(ctx, query)
	if err != nil {
		return nil, err
	}

	return pgxResult{affected: tag.RowsAffected()}, nil
}

type pgxRows struct {
	rows pgx.Rows
}

func (r pgxRows) Next() bool             { return r.rows.Next() }
func (r pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r pgxRows) Err() error             { return r.rows.Err() }

func (r pgxRows) Close() error {
	r.rows.Close()

	return nil
}

type pgxResult struct {
	affected int64
}

func (r pgxResult) RowsAffected() (int64, error) {
	return r.affected, nil
}
