package patronactivity

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

// ProjectActivity folds the patron's history into loans and holds, oldest first.
func ProjectActivity(history core.DomainEvents, query Query, maxSequenceNumber eventstore.MaxSequenceNumberUint) Activity {
	activity := core.ProjectPatronActivity(history, query.PatronID.String())

	holds := make([]HoldInfo, 0)
	for _, hold := range activity.Holds() {
		holds = append(holds, HoldInfo{Hold: hold, State: hold.State()})
	}

	return Activity{
		Patron:             activity.Patron,
		Enrolled:           activity.Enrolled,
		Loans:              activity.Loans(),
		Holds:              holds,
		SequenceNumberSeen: maxSequenceNumber,
	}
}

// BuildEventFilter creates the filter for querying all events of the patron that shape the activity.
func BuildEventFilter(patronID uuid.UUID) eventstore.Filter {
	eventTypes := core.ActivityEventTypes()

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		AndAnyPredicateOf(
			eventstore.P("PatronID", patronID.String()),
		).
		Finalize()
}
