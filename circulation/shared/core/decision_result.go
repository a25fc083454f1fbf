package core

import (
	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
)

// DecisionResult is the outcome of a Decide function.
//
// Only build it with IdempotentDecision, SuccessDecision or ErrorDecision.
type DecisionResult struct {
	Outcome string      // "idempotent", "success" or "error"
	Event   DomainEvent // nil for idempotent decisions
	Problem *problem.Problem
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision means nothing has to change.
func IdempotentDecision() DecisionResult {
	return DecisionResult{Outcome: idempotentOutcome}
}

// SuccessDecision carries the event to append.
func SuccessDecision(event DomainEvent) DecisionResult {
	return DecisionResult{Outcome: successOutcome, Event: event}
}

// ErrorDecision carries the failure event to append and the problem to report.
func ErrorDecision(event DomainEvent, p *problem.Problem) DecisionResult {
	return DecisionResult{Outcome: errorOutcome, Event: event, Problem: p}
}

// HasEventToAppend reports whether there is an event to append.
func (r DecisionResult) HasEventToAppend() bool {
	return r.Outcome != idempotentOutcome
}

// IsIdempotent reports whether nothing has to change.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasError returns the problem as error, or nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome && r.Problem != nil {
		return r.Problem
	}

	return nil
}
