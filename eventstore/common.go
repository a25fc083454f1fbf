package eventstore

import (
	"errors"
)

var (
	// ErrEmptyEventsTableName is returned when an empty table name is configured.
	ErrEmptyEventsTableName = errors.New("events table name must not be empty")

	// ErrNilDatabaseConnection is returned when an engine is built without a connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrConcurrencyConflict is returned when the dynamic event stream changed between query and append.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	// ErrEmptyFilter is returned when Append is called with a filter that would match every event.
	ErrEmptyFilter = errors.New("append requires a filter with at least one event type or predicate")

	// ErrBuildingQueryFailed is returned when SQL generation fails.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrQueryingEventsFailed is returned when reading events fails.
	ErrQueryingEventsFailed = errors.New("querying events failed")

	// ErrScanningDBRowFailed is returned when a result row can not be scanned.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")

	// ErrBuildingStorableEventFailed is returned when a row does not hold a valid event.
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")

	// ErrAppendingEventFailed is returned when writing events fails.
	ErrAppendingEventFailed = errors.New("appending the event failed")

	// ErrGettingRowsAffectedFailed is returned when the driver can't report affected rows.
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
)

// MaxSequenceNumberUint is the highest sequence number of a dynamic event stream at query time.
type MaxSequenceNumberUint = uint
