package shell

import (
	"context"

	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

// EventStore is what command handlers need from an event store engine.
// Both postgresengine.EventStore and memoryengine.EventStore satisfy it.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// QueriesEvents is the read-only part of EventStore, used by query handlers.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// Command is a request to change circulation state, e.g. BorrowBook.
type Command interface {
	CommandType() string
}

// CoreCommandHandler runs Query -> Decide -> Append for one command type, without observability.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// Query is a request for a projection.
type Query interface {
	QueryType() string
}

// CoreQueryHandler projects the events relevant for one query type.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
