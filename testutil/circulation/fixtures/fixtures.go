package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/shell"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

// FakeClock is the reference time of all fixtures.
var FakeClock = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

var (
	EPUB = core.DeliveryMechanism{ContentType: "application/epub+zip", DRMScheme: "application/vnd.adobe.adept+xml"}
	PDF  = core.DeliveryMechanism{ContentType: "application/pdf", DRMScheme: "application/vnd.adobe.adept+xml"}
)

// AvailablePool has one of one licenses available, for a children's title offered as EPUB and PDF.
func AvailablePool(identifier string) core.LicensePool {
	return core.LicensePool{
		ID:                 core.PoolIDFor("Overdrive", identifier),
		DataSource:         "Overdrive",
		Identifier:         identifier,
		LicensesAvailable:  1,
		LicensesOwned:      1,
		Audience:           core.AudienceChildren,
		DeliveryMechanisms: []core.DeliveryMechanism{EPUB, PDF},
	}
}

// UnavailablePool is AvailablePool with all licenses loaned out.
func UnavailablePool(identifier string) core.LicensePool {
	pool := AvailablePool(identifier)
	pool.LicensesAvailable = 0

	return pool
}

// PatronEnrolled enrolls a Clever patron with externalType.
func PatronEnrolled(patronID uuid.UUID, externalType string) core.PatronEnrolled {
	return core.BuildPatronEnrolled(patronID, "Clever", patronID.String(), patronID.String(), externalType, FakeClock)
}

// GivenEvents appends events to es, one by one and without any business rule.
func GivenEvents(t *testing.T, es shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	ctx := context.Background()

	for _, event := range events {
		filter := eventstore.BuildEventFilter().Matching().AnyEventTypeOf(event.EventType()).Finalize()

		_, maxSequenceNumber, err := es.Query(ctx, filter)
		require.NoError(t, err)

		require.NoError(t, shell.AppendEvent(ctx, es, filter, maxSequenceNumber, event))
	}
}

// EventsOfPatron returns every stored event of patronID, failures included, in append order.
func EventsOfPatron(t *testing.T, es shell.EventStore, patronID uuid.UUID) core.DomainEvents {
	t.Helper()

	eventTypes := append(core.ActivityEventTypes(),
		core.BorrowingFailedEventType,
		core.RevokingFailedEventType,
		core.FulfillingFailedEventType,
		core.AssessingFinesFailedEventType,
		core.ReservingHoldFailedEventType,
	)

	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("PatronID", patronID.String())).
		Finalize()

	history, _, err := shell.LoadHistory(context.Background(), es, filter)
	require.NoError(t, err)

	return history
}

// LastEvent returns the most recent event of patronID.
func LastEvent(t *testing.T, es shell.EventStore, patronID uuid.UUID) core.DomainEvent {
	t.Helper()

	events := EventsOfPatron(t, es, patronID)
	require.NotEmpty(t, events)

	return events[len(events)-1]
}
