// Package postgresengine stores circulation events in PostgreSQL.
//
// SQL is built with goqu. The engine runs on a pgx pool, a database/sql pool (lib/pq)
// or a sqlx pool. Payload predicates are translated into JSONB containment (payload @> ...),
// and Append only inserts when the max sequence number of the filtered stream still equals
// the expected one; otherwise it returns eventstore.ErrConcurrencyConflict.
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithTableName("circulation_events"),
//		postgresengine.WithContextualLogger(logger),
//		postgresengine.WithTracing(tracing),
//	)
//	_ = store.EnsureSchema(ctx)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine
