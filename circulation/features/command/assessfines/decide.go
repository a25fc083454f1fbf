package assessfines

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

const (
	failureReasonUnknownPatron = "Unknown patron."
	failureReasonNegativeFines = "Fines must not be negative."
)

// Decide records a new fines balance.
//
// Business Rules:
//
//	GIVEN: An enrolled patron
//	WHEN: AssessFines command is received
//	THEN: FinesAssessed event is generated
//	ERROR: InvalidInput if the patron is not enrolled or the balance is negative
//	IDEMPOTENCY: If the balance is unchanged, no event is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	activity := core.ProjectPatronActivity(history, command.PatronID.String())

	if !activity.Enrolled {
		return failed(command, problem.Detailed(problem.InvalidInput, failureReasonUnknownPatron))
	}

	if command.Fines < 0 {
		return failed(command, problem.Detailed(problem.InvalidInput, failureReasonNegativeFines))
	}

	if activity.Patron.Fines == command.Fines {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildFinesAssessed(command.PatronID, command.Fines, command.OccurredAt))
}

func failed(command Command, p *problem.Problem) core.DecisionResult {
	event := core.BuildCirculationFailed(core.AssessingFinesFailedEventType, command.PatronID, "", p, command.OccurredAt)

	return core.ErrorDecision(event, p)
}

// BuildEventFilter creates the filter for querying the patron's enrollment and fines.
func BuildEventFilter(patronID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.PatronEnrolledEventType,
			core.FinesAssessedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("PatronID", patronID.String()),
		).
		Finalize()
}
