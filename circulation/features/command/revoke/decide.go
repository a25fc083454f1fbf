package revoke

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

const (
	failureReasonHoldReserved    = "Cannot release a hold once it enters reserved state."
	failureReasonNothingToRevoke = "No active loan or hold"
)

// state represents the current state projected from the event history.
type state struct {
	hasOpenLoan bool
	hasOpenHold bool
	holdState   core.HoldState
}

// Decide determines what revoking means for the patron's activity on the pool.
//
// Business Rules:
//
//	GIVEN: A patron and a license pool
//	WHEN: RevokeLoanOrHold command is received
//	THEN: LoanReturned event is generated if a loan is open
//	THEN: HoldReleased event is generated if a queued hold is open
//	ERROR: CannotReleaseHold if the open hold is reserved
//	ERROR: NoActiveLoan if neither a loan nor a hold is open
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command.PatronID.String(), command.Pool.ID)

	switch {
	case s.hasOpenLoan:
		return core.SuccessDecision(core.BuildLoanReturned(command.PatronID, command.Pool.ID, command.OccurredAt))

	case s.hasOpenHold && s.holdState == core.HoldStateReserved:
		return failed(command, problem.Detailed(problem.CannotReleaseHold, failureReasonHoldReserved))

	case s.hasOpenHold:
		return core.SuccessDecision(core.BuildHoldReleased(command.PatronID, command.Pool.ID, command.OccurredAt))
	}

	return failed(command, problem.Detailed(problem.NoActiveLoan, failureReasonNothingToRevoke))
}

func failed(command Command, p *problem.Problem) core.DecisionResult {
	event := core.BuildCirculationFailed(
		core.RevokingFailedEventType,
		command.PatronID,
		command.Pool.ID,
		p,
		command.OccurredAt,
	)

	return core.ErrorDecision(event, p)
}

// project builds the current state by replaying all events from the history.
func project(history core.DomainEvents, patronID core.PatronIDString, poolID core.PoolIDString) state {
	activity := core.ProjectPatronActivity(history, patronID)

	_, hasOpenLoan := activity.OpenLoan(poolID)
	hold, hasOpenHold := activity.OpenHold(poolID)

	return state{
		hasOpenLoan: hasOpenLoan,
		hasOpenHold: hasOpenHold,
		holdState:   hold.State(),
	}
}

// BuildEventFilter creates the filter for querying the patron's enrollment
// plus the patron's loans and holds of this pool.
func BuildEventFilter(patronID uuid.UUID, poolID core.PoolIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.PatronEnrolledEventType,
			core.PatronUpdatedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("PatronID", patronID.String()),
		).
		OrMatching().
		AnyEventTypeOf(
			core.LoanStartedEventType,
			core.LoanFulfilledEventType,
			core.LoanReturnedEventType,
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
