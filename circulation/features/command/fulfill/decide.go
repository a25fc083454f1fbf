package fulfill

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

const (
	failureReasonNoMechanism   = "You must specify a delivery mechanism to fulfill this loan."
	failureReasonUnsupported   = "Unsupported delivery mechanism for this book."
	failureReasonAlreadyLocked = "You already fulfilled this loan as %s, you can't also do it as %s"
)

// state represents the current state projected from the event history.
type state struct {
	hasOpenLoan bool
	locked      core.DeliveryMechanism
}

// Decide determines whether the open loan may be fulfilled with the requested mechanism.
//
// Business Rules:
//
//	GIVEN: A patron with an open loan of the pool
//	WHEN: FulfillLoan command is received
//	THEN: LoanFulfilled event is generated, locking the loan to the mechanism
//	ERROR: NoActiveLoan if there is no open loan
//	ERROR: BadDeliveryMechanism if no mechanism is requested and none is locked
//	ERROR: BadDeliveryMechanism if the pool does not offer the mechanism
//	ERROR: BadDeliveryMechanism if the loan is locked to another mechanism
//	IDEMPOTENCY: If the loan is already locked to the mechanism (or none is requested), no event is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command.PatronID.String(), command.Pool.ID)

	if !s.hasOpenLoan {
		return failed(command, problem.New(problem.NoActiveLoan))
	}

	requested := command.Mechanism

	if requested.IsZero() {
		if s.locked.IsZero() {
			return failed(command, problem.Detailed(problem.BadDeliveryMechanism, failureReasonNoMechanism))
		}

		return core.IdempotentDecision()
	}

	if !command.Pool.Offers(requested) {
		return failed(command, problem.Detailed(problem.BadDeliveryMechanism, failureReasonUnsupported))
	}

	if !s.locked.IsZero() {
		if s.locked.Equal(requested) {
			return core.IdempotentDecision()
		}

		detail := fmt.Sprintf(failureReasonAlreadyLocked, s.locked.Name(), requested.Name())

		return failed(command, problem.Detailed(problem.BadDeliveryMechanism, detail))
	}

	return core.SuccessDecision(
		core.BuildLoanFulfilled(command.PatronID, command.Pool.ID, requested, command.OccurredAt),
	)
}

// ResolveMechanism returns the mechanism the vendor has to fulfill with: the requested one,
// or the locked one when none was requested.
func ResolveMechanism(history core.DomainEvents, command Command) core.DeliveryMechanism {
	if !command.Mechanism.IsZero() {
		return command.Mechanism
	}

	return project(history, command.PatronID.String(), command.Pool.ID).locked
}

func failed(command Command, p *problem.Problem) core.DecisionResult {
	event := core.BuildCirculationFailed(
		core.FulfillingFailedEventType,
		command.PatronID,
		command.Pool.ID,
		p,
		command.OccurredAt,
	)

	return core.ErrorDecision(event, p)
}

// project builds the current state by replaying all events from the history.
func project(history core.DomainEvents, patronID core.PatronIDString, poolID core.PoolIDString) state {
	loan, hasOpenLoan := core.ProjectPatronActivity(history, patronID).OpenLoan(poolID)

	return state{
		hasOpenLoan: hasOpenLoan,
		locked:      loan.Fulfillment,
	}
}

// BuildEventFilter creates the filter for querying the patron's enrollment
// plus the patron's loans of this pool.
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
		).
		AndAllPredicatesOf(
			eventstore.P("PatronID", patronID.String()),
			eventstore.P("PoolID", poolID),
		).
		Finalize()
}
