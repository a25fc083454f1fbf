package shell

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

func Test_DomainEventFrom_RestoresEveryEventType(t *testing.T) {
	patronID := uuid.New()
	poolID := core.PoolIDFor("Overdrive", "ISBN-1")
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	epub := core.DeliveryMechanism{ContentType: "application/epub+zip", DRMScheme: core.NoDRM}

	events := core.DomainEvents{
		core.BuildPatronEnrolled(patronID, "clever", "5b2ad81a", "5b2ad81a", "M", now),
		core.BuildPatronUpdated(patronID, "5b2ad81a", "H", now),
		core.BuildFinesAssessed(patronID, core.Money(1250), now),
		core.BuildLoanStarted(patronID, poolID, now.Add(21*24*time.Hour), now),
		core.BuildLoanFulfilled(patronID, poolID, epub, now),
		core.BuildLoanReturned(patronID, poolID, now),
		core.BuildHoldPlaced(patronID, poolID, 3, now),
		core.BuildHoldReserved(patronID, poolID, now),
		core.BuildHoldReleased(patronID, poolID, now),
		core.BuildCirculationFailed(core.BorrowingFailedEventType, patronID, poolID, problem.New(problem.ForbiddenByPolicy), now),
		core.BuildCirculationFailed(core.RevokingFailedEventType, patronID, poolID, problem.New(problem.CannotReleaseHold), now),
		core.BuildCirculationFailed(core.FulfillingFailedEventType, patronID, poolID, problem.New(problem.BadDeliveryMechanism), now),
	}

	for _, event := range events {
		t.Run(event.EventType(), func(t *testing.T) {
			// arrange
			storable, err := StorableEventFrom(event, NewEventMetadata())
			require.NoError(t, err)

			// act
			restored, err := DomainEventFrom(storable)

			// assert
			require.NoError(t, err)
			assert.Equal(t, event, restored)
			assert.Equal(t, event.IsErrorEvent(), restored.IsErrorEvent())
		})
	}
}

func Test_StorableEventFrom_PayloadCarriesFilterKeys(t *testing.T) {
	// arrange
	patronID := uuid.New()
	event := core.BuildHoldPlaced(patronID, "Overdrive/ISBN-1", core.UnknownHoldPosition, time.Now())

	// act
	storable, err := StorableEventFrom(event, NewEventMetadata())

	// assert
	require.NoError(t, err)
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.HoldPlacedEventType).
		AndAllPredicatesOf(eventstore.P("PatronID", patronID.String()), eventstore.P("PoolID", "Overdrive/ISBN-1")).
		Finalize()
	assert.True(t, filter.Matches(storable))
}

func Test_DomainEventFrom_UnknownEventType(t *testing.T) {
	// arrange
	storable, err := eventstore.BuildStorableEventWithEmptyMetadata("SomethingUnknownHappened", time.Now(), []byte(`{}`))
	require.NoError(t, err)

	// act
	_, err = DomainEventFrom(storable)

	// assert
	assert.ErrorIs(t, err, ErrMappingToDomainEventUnknownEventType)
}

func Test_EventMetadataFrom(t *testing.T) {
	// arrange
	metadata := NewEventMetadata()
	storable, err := StorableEventFrom(core.BuildHoldReleased(uuid.New(), "p", time.Now()), metadata)
	require.NoError(t, err)

	// act
	restored, err := EventMetadataFrom(storable)

	// assert
	require.NoError(t, err)
	assert.Equal(t, metadata, restored)
	assert.Equal(t, metadata.MessageID, metadata.CorrelationID)
}
