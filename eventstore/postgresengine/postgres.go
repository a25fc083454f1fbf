package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName          = "events"
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgQueryCompleted           = "eventstore operation: query completed"
	logMsgEventsAppended           = "eventstore operation: events appended"
	logMsgConcurrencyConflict      = "eventstore operation: concurrency conflict detected"
	logMsgSQLExecuted              = "executed sql for: "
	logAttrError                   = "error"
	logAttrQuery                   = "query"
	logAttrEventType               = "event_type"
	logAttrEventCount              = "event_count"
	logAttrDurationMS              = "duration_ms"
	logAttrExpectedSequence        = "expected_sequence"
	colEventType                   = "event_type"
	colOccurredAt                  = "occurred_at"
	colPayload                     = "payload"
	colMetadata                    = "metadata"
	colSequenceNumber              = "sequence_number"
	cteContext                     = "context"
	cteVals                        = "vals"
	dialectPostgres                = "postgres"
	aliasMaxSeq                    = "max_seq"
	castText                       = "?::text"
	castTimestamp                  = "?::timestamp with time zone"
	castJsonb                      = "?::jsonb"
	payloadContains                = "payload @> ?::jsonb"
)

// EventStore is the PostgreSQL engine of the circulation ledger.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
	metricsCollector eventstore.MetricsCollector
	tracingCollector eventstore.TracingCollector
}

// NewEventStoreFromPGXPool creates an EventStore on a pgx pool.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromSQLDB creates an EventStore on a database/sql pool.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates an EventStore on a sqlx pool.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (EventStore, error) {
	es := EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventStore{}, err
		}
	}

	return es, nil
}

// EnsureSchema creates the events table and its indexes when they do not exist yet.
func (es EventStore) EnsureSchema(ctx context.Context) error {
	table := pgx.Identifier{es.eventTableName}.Sanitize()
	index := func(suffix string) string { return pgx.Identifier{es.eventTableName + suffix}.Sanitize() }
	statements := []string{
		fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s (
				sequence_number bigserial PRIMARY KEY,
				event_type text NOT NULL,
				occurred_at timestamptz NOT NULL,
				payload jsonb NOT NULL,
				metadata jsonb NOT NULL
			)`,
			table,
		),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (event_type)`, index("_event_type_idx"), table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s USING gin (payload jsonb_path_ops)`, index("_payload_idx"), table),
	}

	for _, statement := range statements {
		if _, err := es.db.Exec(ctx, statement); err != nil {
			return errors.Join(eventstore.ErrAppendingEventFailed, err)
		}
	}

	return nil
}

// Query returns the events matching the filter, ordered by sequence number,
// and the max sequence number of this dynamic event stream.
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	observer, ctx := es.observe(ctx, operationQuery, spanNameQuery, metricQueryDuration, map[string]string{})

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		es.logError(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)
		observer.fail(errorTypeBuildQuery)

		return nil, 0, buildQueryErr
	}

	rows, queryErr := es.db.Query(ctx, sqlQuery)
	es.logDebug(ctx, logMsgSQLExecuted+operationQuery, logAttrDurationMS, observer.elapsedMS(), logAttrQuery, sqlQuery)

	if queryErr != nil {
		es.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		observer.fail(errorTypeDatabase)

		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer func() { _ = rows.Close() }()

	eventStream, maxSequenceNumber, errorType, scanErr := es.processQueryResults(ctx, rows)
	if scanErr != nil {
		observer.fail(errorType)

		return nil, 0, scanErr
	}

	es.logInfo(ctx, logMsgQueryCompleted, logAttrEventCount, len(eventStream), logAttrDurationMS, observer.elapsedMS())
	observer.succeed(metricEventsQueried, len(eventStream), map[string]string{
		spanAttrEventCount:  strconv.Itoa(len(eventStream)),
		spanAttrMaxSequence: strconv.FormatUint(uint64(maxSequenceNumber), 10),
	})

	return eventStream, maxSequenceNumber, nil
}

func (es EventStore) processQueryResults(ctx context.Context, rows adapters.DBRows) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	string,
	error,
) {

	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		var row struct {
			eventType      string
			occurredAt     time.Time
			payload        []byte
			metadata       []byte
			sequenceNumber int64
		}

		if err := rows.Scan(&row.eventType, &row.occurredAt, &row.payload, &row.metadata, &row.sequenceNumber); err != nil {
			es.logError(ctx, logMsgScanRowFailed, err)

			return nil, 0, errorTypeScan, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		event, buildErr := eventstore.BuildStorableEvent(row.eventType, row.occurredAt, row.payload, row.metadata)
		if buildErr != nil {
			es.logError(ctx, logMsgBuildStorableEventFailed, buildErr, logAttrEventType, row.eventType)

			return nil, 0, errorTypeBuildEvent, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		}

		event.SequenceNumber = uint(row.sequenceNumber)
		eventStream = append(eventStream, event)
		maxSequenceNumber = event.SequenceNumber
	}

	if err := rows.Err(); err != nil {
		es.logError(ctx, logMsgScanRowFailed, err)

		return nil, 0, errorTypeScan, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	return eventStream, maxSequenceNumber, "", nil
}

// Append inserts the events only if the dynamic event stream selected by filter still has
// expectedMaxSequenceNumber as its max sequence number. The filter must be the one used
// for the Query the decision was based on.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)

	observer, ctx := es.observe(ctx, operationAppend, spanNameAppend, metricAppendDuration, map[string]string{
		spanAttrEventCount:  strconv.Itoa(len(allEvents)),
		spanAttrEventType:   event.EventType,
		spanAttrExpectedSeq: strconv.FormatUint(uint64(expectedMaxSequenceNumber), 10),
	})

	if filter.IsEmpty() {
		observer.fail(errorTypeBuildQuery)
		return eventstore.ErrEmptyFilter
	}

	sqlQuery, buildQueryErr := es.buildInsertQuery(allEvents, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		es.logError(ctx, logMsgBuildInsertQueryFailed, buildQueryErr, logAttrEventCount, len(allEvents))
		observer.fail(errorTypeBuildQuery)

		return buildQueryErr
	}

	result, execErr := es.db.Exec(ctx, sqlQuery)
	es.logDebug(ctx, logMsgSQLExecuted+operationAppend, logAttrDurationMS, observer.elapsedMS(), logAttrQuery, sqlQuery)

	if execErr != nil {
		es.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		observer.fail(errorTypeDatabaseExec)

		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		es.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		observer.fail(errorTypeRowsAffected)

		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < int64(len(allEvents)) {
		es.logInfo(ctx, logMsgConcurrencyConflict, logAttrEventCount, len(allEvents), logAttrExpectedSequence, expectedMaxSequenceNumber)
		observer.fail(errorTypeConcurrency)

		return eventstore.ErrConcurrencyConflict
	}

	es.logInfo(ctx, logMsgEventsAppended, logAttrEventCount, len(allEvents), logAttrDurationMS, observer.elapsedMS())
	observer.succeed(metricEventsAppended, len(allEvents), map[string]string{
		spanAttrRowsAffected: strconv.FormatInt(rowsAffected, 10),
	})

	return nil
}

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	whereClause, err := whereClauseFor(filter)
	if err != nil {
		return "", err
	}

	if whereClause != nil {
		selectStmt = selectStmt.Where(whereClause)
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildInsertQuery builds INSERT ... SELECT guarded by the max sequence number of the stream:
// when another writer appended a matching event in between, zero rows are inserted.
func (es EventStore) buildInsertQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, error) {

	builder := goqu.Dialect(dialectPostgres)

	whereClause, err := whereClauseFor(filter)
	if err != nil {
		return "", err
	}

	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq)).
		Where(whereClause)

	valuesStmt := selectEventValues(builder, events[0])
	for _, event := range events[1:] {
		valuesStmt = valuesStmt.UnionAll(selectEventValues(builder, event))
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					goqu.I(cteVals+"."+colEventType),
					goqu.I(cteVals+"."+colOccurredAt),
					goqu.I(cteVals+"."+colPayload),
					goqu.I(cteVals+"."+colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func selectEventValues(builder goqu.DialectWrapper, event eventstore.StorableEvent) *goqu.SelectDataset {
	return builder.Select(
		goqu.L(castText, event.EventType).As(colEventType),
		goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
		goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
		goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
	)
}

// whereClauseFor translates the filter; an empty filter yields nil.
func whereClauseFor(filter eventstore.Filter) (exp.Expression, error) {
	if filter.IsEmpty() {
		return nil, nil
	}

	itemExpressions := make([]exp.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		eventTypeExpressions := make([]exp.Expression, 0, len(item.EventTypes()))
		for _, eventType := range item.EventTypes() {
			eventTypeExpressions = append(eventTypeExpressions, goqu.Ex{colEventType: eventType})
		}

		predicateExpressions := make([]exp.Expression, 0, len(item.Predicates()))
		for _, predicate := range item.Predicates() {
			containment, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(
				map[string]string{predicate.Key(): predicate.Val()},
			)
			if err != nil {
				return nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
			}

			predicateExpressions = append(predicateExpressions, goqu.L(payloadContains, string(containment)))
		}

		predicates := goqu.Or(predicateExpressions...)
		if item.AllPredicatesMustMatch() {
			predicates = goqu.And(predicateExpressions...)
		}

		itemExpressions = append(itemExpressions, goqu.And(goqu.Or(eventTypeExpressions...), predicates))
	}

	return goqu.Or(itemExpressions...), nil
}
