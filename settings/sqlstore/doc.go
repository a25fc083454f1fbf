// Package sqlstore keeps settings in the configuration_settings table of a Postgres or SQLite
// database. Queries are built with goqu and executed through sqlx.
package sqlstore
