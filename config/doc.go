// Package config loads the circulation manager's YAML configuration and builds the
// infrastructure it describes: PostgreSQL connections (pgx.Pool, sql.DB, sqlx.DB),
// the settings database and the OpenTelemetry providers.
package config
