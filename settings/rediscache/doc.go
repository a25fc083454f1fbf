// Package rediscache puts a Redis read-through cache in front of a settings.Store.
// Writes go to the wrapped store first and then evict the cached entry.
package rediscache
