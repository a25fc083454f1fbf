// Package memoryengine keeps circulation events in process memory.
// It follows the postgres engine's Query/Append contract, including the concurrency check,
// and is used by command handler tests and dry runs of the CLI.
package memoryengine

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

// EventStore is safe for concurrent use.
type EventStore struct {
	mu     sync.RWMutex
	events eventstore.StorableEvents
	logger eventstore.Logger
}

// Option configures an EventStore.
type Option func(*EventStore)

// WithLogger logs appended events and conflicts at info level.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) {
		es.logger = logger
	}
}

func NewEventStore(options ...Option) *EventStore {
	es := &EventStore{}
	for _, option := range options {
		option(es)
	}

	return es
}

// Query returns copies of the events matching filter and the max sequence number among them.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	matched, maxSeq := es.matching(filter)

	return matched, maxSeq, nil
}

// Append stores the events when the max sequence number of the stream selected by filter
// still equals expectedMaxSequenceNumber.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	if filter.IsEmpty() {
		return eventstore.ErrEmptyFilter
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	if _, maxSeq := es.matching(filter); maxSeq != expectedMaxSequenceNumber {
		if es.logger != nil {
			es.logger.Info("eventstore operation: concurrency conflict detected",
				"expected_sequence", expectedMaxSequenceNumber, "actual_sequence", maxSeq)
		}

		return eventstore.ErrConcurrencyConflict
	}

	for _, e := range append(eventstore.StorableEvents{event}, additionalEvents...) {
		e.SequenceNumber = uint(len(es.events) + 1)
		es.events = append(es.events, e)
	}

	if es.logger != nil {
		es.logger.Info("eventstore operation: events appended", "event_count", 1+len(additionalEvents))
	}

	return nil
}

// Len returns the number of stored events.
func (es *EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(es.events)
}

func (es *EventStore) matching(filter eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint) {
	matched := make(eventstore.StorableEvents, 0)
	maxSeq := eventstore.MaxSequenceNumberUint(0)

	for _, e := range es.events {
		if filter.Matches(e) {
			matched = append(matched, e)
			maxSeq = e.SequenceNumber
		}
	}

	return matched, maxSeq
}
