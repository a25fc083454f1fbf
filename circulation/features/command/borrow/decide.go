package borrow

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/policy"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

// state represents the current state projected from the event history.
type state struct {
	patron              core.Patron
	patronIsNotEnrolled bool
	hasOpenLoan         bool
	hasOpenHold         bool
}

// Decide determines whether the patron may check out the pool.
//
// Business Rules:
//
//	GIVEN: An enrolled patron and a license pool
//	WHEN: BorrowBook command is received
//	THEN: LoanStarted event is generated (the vendor checkout still has to succeed)
//	ERROR: InvalidCredentials if the patron is not enrolled
//	ERROR: ForbiddenByPolicy if the patron's fines exceed the configured maximum
//	ERROR: ForbiddenByPolicy if holds are hidden and the pool has no available copy
//	ERROR: ForbiddenByPolicy (451) if the patron's classification key may not borrow the pool's audience
//	IDEMPOTENCY: If the patron already has this pool on loan, no event is generated
func Decide(history core.DomainEvents, command Command, cfg policy.Configuration) core.DecisionResult {
	s := project(history, command.PatronID.String(), command.Pool.ID)

	if s.patronIsNotEnrolled {
		return failed(command, problem.New(problem.InvalidCredentials))
	}

	if p := policy.CheckFines(cfg, s.patron); p != nil {
		return failed(command, p)
	}

	if s.hasOpenLoan {
		return core.IdempotentDecision()
	}

	if p := policy.ApplyBorrowingPolicy(cfg, s.patron, command.Pool); p != nil {
		return failed(command, p)
	}

	return core.SuccessDecision(
		core.BuildLoanStarted(command.PatronID, command.Pool.ID, core.OccurredAtTS{}, command.OccurredAt),
	)
}

// DecideHold determines whether a hold may be placed after the vendor reported that no copy is available.
//
// Business Rules:
//
//	GIVEN: An enrolled patron and a license pool without available copies
//	THEN: HoldPlaced event is generated with an unknown position (the vendor reports the real one)
//	ERROR: ForbiddenByPolicy if holds are hidden and the pool is not open access
//	IDEMPOTENCY: If the patron already has a hold on this pool, no event is generated
func DecideHold(history core.DomainEvents, command Command, cfg policy.Configuration) core.DecisionResult {
	s := project(history, command.PatronID.String(), command.Pool.ID)

	if s.patronIsNotEnrolled {
		return failed(command, problem.New(problem.InvalidCredentials))
	}

	if s.hasOpenHold {
		return core.IdempotentDecision()
	}

	exhausted := command.Pool
	exhausted.LicensesAvailable = 0

	if p := policy.ApplyBorrowingPolicy(cfg, s.patron, exhausted); p != nil {
		return failed(command, p)
	}

	return core.SuccessDecision(
		core.BuildHoldPlaced(command.PatronID, command.Pool.ID, core.UnknownHoldPosition, command.OccurredAt),
	)
}

func failed(command Command, p *problem.Problem) core.DecisionResult {
	event := core.BuildCirculationFailed(
		core.BorrowingFailedEventType,
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
	_, hasOpenHold := activity.OpenHold(poolID)

	return state{
		patron:              activity.Patron,
		patronIsNotEnrolled: !activity.Enrolled,
		hasOpenLoan:         hasOpenLoan,
		hasOpenHold:         hasOpenHold,
	}
}

// BuildEventFilter creates the filter for querying the patron's enrollment and fines
// plus the patron's loans and holds of this pool.
func BuildEventFilter(patronID uuid.UUID, poolID core.PoolIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.PatronEnrolledEventType,
			core.PatronUpdatedEventType,
			core.FinesAssessedEventType,
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
