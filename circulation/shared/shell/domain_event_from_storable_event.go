package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts StorableEvents to DomainEvents, keeping their order.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	payload := storableEvent.PayloadJSON

	switch storableEvent.EventType {
	case core.PatronEnrolledEventType:
		return unmarshalInto[core.PatronEnrolled](payload)
	case core.PatronUpdatedEventType:
		return unmarshalInto[core.PatronUpdated](payload)
	case core.FinesAssessedEventType:
		return unmarshalInto[core.FinesAssessed](payload)
	case core.LoanStartedEventType:
		return unmarshalInto[core.LoanStarted](payload)
	case core.LoanFulfilledEventType:
		return unmarshalInto[core.LoanFulfilled](payload)
	case core.LoanReturnedEventType:
		return unmarshalInto[core.LoanReturned](payload)
	case core.HoldPlacedEventType:
		return unmarshalInto[core.HoldPlaced](payload)
	case core.HoldReservedEventType:
		return unmarshalInto[core.HoldReserved](payload)
	case core.HoldReleasedEventType:
		return unmarshalInto[core.HoldReleased](payload)
	}

	if core.IsCirculationFailedEventType(storableEvent.EventType) {
		event, err := unmarshalInto[core.CirculationFailed](payload)
		if err != nil {
			return nil, err
		}

		failed := event.(core.CirculationFailed)
		failed.Type = storableEvent.EventType

		return failed, nil
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshalInto[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
