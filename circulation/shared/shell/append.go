package shell

import (
	"context"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

// AppendEvent stores event with fresh metadata, guarded by the filter and max sequence number
// the decision was made on. It returns eventstore.ErrConcurrencyConflict (wrapped) when
// another event matching filter was appended in between.
func AppendEvent(
	ctx context.Context,
	es EventStore,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event core.DomainEvent,
) error {

	storableEvent, err := StorableEventFrom(event, NewEventMetadata())
	if err != nil {
		return err
	}

	return es.Append(ctx, filter, expectedMaxSequenceNumber, storableEvent)
}

// LoadHistory queries the events matching filter and maps them to domain events.
func LoadHistory(ctx context.Context, es QueriesEvents, filter eventstore.Filter) (
	core.DomainEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	storableEvents, maxSequenceNumber, err := es.Query(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return history, maxSequenceNumber, nil
}
