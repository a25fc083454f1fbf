package enrollpatron

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

// Decide enrolls a new patron or updates a known one.
//
// Business Rules:
//
//	GIVEN: A verified identity
//	WHEN: EnrollPatron command is received
//	THEN: PatronEnrolled event is generated for an unknown patron
//	THEN: PatronUpdated event is generated if authorization identifier or external type changed
//	IDEMPOTENCY: If nothing changed, no event is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	activity := core.ProjectPatronActivity(history, command.PatronID.String())
	data := command.Patron

	if !activity.Enrolled {
		return core.SuccessDecision(
			core.BuildPatronEnrolled(
				command.PatronID,
				command.Provider,
				data.PermanentID,
				data.AuthorizationIdentifier,
				data.ExternalType,
				command.OccurredAt,
			),
		)
	}

	known := activity.Patron
	if known.AuthorizationIdentifier == data.AuthorizationIdentifier && known.ExternalType == data.ExternalType {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildPatronUpdated(command.PatronID, data.AuthorizationIdentifier, data.ExternalType, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying the patron's enrollment events.
func BuildEventFilter(patronID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.PatronEnrolledEventType,
			core.PatronUpdatedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("PatronID", patronID.String()),
		).
		Finalize()
}
