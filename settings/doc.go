// Package settings holds the string-valued configuration of the circulation manager.
//
// Settings are sitewide (library "") or per library; values may be JSON encoded.
// Store implementations live in this package (MemoryStore) and in the subpackages
// sqlstore (goqu over sqlx) and rediscache (read-through cache on go-redis).
package settings
