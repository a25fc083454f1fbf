package adapters

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// NewSQLAdapter wraps a database/sql pool, e.g. opened with the lib/pq driver.
func NewSQLAdapter(db *sql.DB) DBAdapter {
	return stdAdapter{db: db}
}

// NewSQLXAdapter wraps a sqlx pool.
func NewSQLXAdapter(db *sqlx.DB) DBAdapter {
	return stdAdapter{db: db}
}
