package markholdreserved

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

const (
	failureReasonNoHold = "No active hold"
)

// Decide moves an open hold to the reserved state.
//
// Business Rules:
//
//	GIVEN: A patron with an open hold of the pool
//	WHEN: MarkHoldReserved command is received
//	THEN: HoldReserved event is generated
//	ERROR: NoActiveLoan if there is no open hold
//	IDEMPOTENCY: If the hold is already reserved, no event is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	hold, ok := core.ProjectPatronActivity(history, command.PatronID.String()).OpenHold(command.PoolID)

	if !ok {
		p := problem.Detailed(problem.NoActiveLoan, failureReasonNoHold)
		event := core.BuildCirculationFailed(core.ReservingHoldFailedEventType, command.PatronID, command.PoolID, p, command.OccurredAt)

		return core.ErrorDecision(event, p)
	}

	if hold.State() == core.HoldStateReserved {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildHoldReserved(command.PatronID, command.PoolID, command.OccurredAt))
}

// BuildEventFilter creates the filter for querying the patron's holds of this pool.
func BuildEventFilter(patronID uuid.UUID, poolID core.PoolIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.LoanStartedEventType,
			core.HoldPlacedEventType,
			core.HoldReservedEventType,
			core.HoldReleasedEventType,
		).
		AndAllPredicatesOf(
			eventstore.P("PatronID", patronID.String()),
			eventstore.P("PoolID", poolID),
		).
		Finalize()
}
