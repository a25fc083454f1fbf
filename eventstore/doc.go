// Package eventstore provides the circulation ledger abstractions: every change to a
// patron, loan or hold is recorded as an event and read back through filters.
//
// The ledger is queried per "dynamic event stream": the set of events matching a Filter,
// typically all loan and hold events of one (patron, license pool) pair plus the patron's
// enrollment events. Appending with the same Filter and the max sequence number observed
// by the query gives optimistic concurrency control, so two requests racing for the same
// pair can never both open a loan or hold.
//
// Key types:
//   - Filter: event types and JSON payload predicates to match
//   - StorableEvent: a serialized event as it is written and read
//   - MaxSequenceNumberUint: the version of a dynamic event stream
//
// Common usage pattern:
//
//	filter := BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(core.LoanStartedEventType, core.LoanReturnedEventType).
//		AndAllPredicatesOf(P("PatronID", patronID), P("PoolID", poolID)).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	err = store.Append(ctx, filter, maxSeq, newEvent)
//
// Engines live in the subpackages postgresengine (goqu SQL over pgx, database/sql or sqlx)
// and memoryengine (in-process, used by tests and the CLI's dry-run mode).
package eventstore
