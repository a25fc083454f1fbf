package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/circulation-manager-go/settings"
)

const (
	defaultTableName = "configuration_settings"
	colLibrary       = "library"
	colKey           = "key"
	colValue         = "value"
	dialectPostgres  = "postgres"
	dialectSQLite    = "sqlite3"
)

var (
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")
	ErrUnsupportedDriver     = errors.New("unsupported database driver")
	ErrEmptyTableName        = errors.New("table name must not be empty")
)

// Store implements settings.Store on a SQL database.
type Store struct {
	db        *sqlx.DB
	dialect   goqu.DialectWrapper
	tableName string
}

// Option configures a Store.
type Option func(*Store) error

// WithTableName overrides the default table name.
func WithTableName(tableName string) Option {
	return func(s *Store) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		s.tableName = tableName

		return nil
	}
}

// New creates a Store. The goqu dialect follows the sqlx driver name: "postgres" (lib/pq) or "sqlite3".
func New(db *sqlx.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	var dialect string

	switch db.DriverName() {
	case "postgres", "pgx":
		dialect = dialectPostgres
	case "sqlite3":
		dialect = dialectSQLite
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, db.DriverName())
	}

	s := &Store{
		db:        db,
		dialect:   goqu.Dialect(dialect),
		tableName: defaultTableName,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// EnsureSchema creates the settings table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statement := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %q (
			%q text NOT NULL,
			%q text NOT NULL,
			%q text NOT NULL,
			PRIMARY KEY (%q, %q)
		)`,
		s.tableName, colLibrary, colKey, colValue, colLibrary, colKey,
	)

	_, err := s.db.ExecContext(ctx, statement)

	return err
}

func (s *Store) Get(ctx context.Context, library, key string) (string, bool, error) {
	query, args, err := s.dialect.
		From(s.tableName).
		Select(colValue).
		Where(s.identifiedBy(library, key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", false, err
	}

	var value string
	if err = s.db.GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, err
	}

	return value, true, nil
}

// Set updates the row of library and key, inserting it when there is none.
func (s *Store) Set(ctx context.Context, library, key, value string) error {
	if key == "" {
		return settings.ErrEmptyKey
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() { _ = tx.Rollback() }()

	update, args, err := s.dialect.
		Update(s.tableName).
		Set(goqu.Record{colValue: value}).
		Where(s.identifiedBy(library, key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, update, args...)
	if err != nil {
		return err
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if updated == 0 {
		insert, insertArgs, buildErr := s.dialect.
			Insert(s.tableName).
			Rows(goqu.Record{colLibrary: library, colKey: key, colValue: value}).
			Prepared(true).
			ToSQL()
		if buildErr != nil {
			return buildErr
		}

		if _, err = tx.ExecContext(ctx, insert, insertArgs...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) Delete(ctx context.Context, library, key string) error {
	query, args, err := s.dialect.
		Delete(s.tableName).
		Where(s.identifiedBy(library, key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)

	return err
}

type settingRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

func (s *Store) All(ctx context.Context, library string) (map[string]string, error) {
	query, args, err := s.dialect.
		From(s.tableName).
		Select(colKey, colValue).
		Where(goqu.Ex{colLibrary: library}).
		Order(goqu.I(colKey).Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []settingRow
	if err = s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	all := make(map[string]string, len(rows))
	for _, row := range rows {
		all[row.Key] = row.Value
	}

	return all, nil
}

func (s *Store) identifiedBy(library, key string) goqu.Ex {
	return goqu.Ex{colLibrary: library, colKey: key}
}
