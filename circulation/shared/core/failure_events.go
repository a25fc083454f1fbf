package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
)

const (
	BorrowingFailedEventType      = "BorrowingFailed"
	RevokingFailedEventType       = "RevokingFailed"
	FulfillingFailedEventType     = "FulfillingFailed"
	AssessingFinesFailedEventType = "AssessingFinesFailed"
	ReservingHoldFailedEventType  = "ReservingHoldFailed"
)

// IsCirculationFailedEventType reports whether eventType is one of the failure event types.
func IsCirculationFailedEventType(eventType string) bool {
	switch eventType {
	case BorrowingFailedEventType, RevokingFailedEventType, FulfillingFailedEventType,
		AssessingFinesFailedEventType, ReservingHoldFailedEventType:
		return true
	}

	return false
}

// CirculationFailed records a request rejected by a circulation rule.
// The event type tells which request failed; ProblemKind and FailureInfo what was reported.
type CirculationFailed struct {
	Type        string `json:"-"`
	PatronID    PatronIDString
	PoolID      PoolIDString
	ProblemKind string
	FailureInfo string
	OccurredAt  OccurredAtTS
}

// BuildCirculationFailed builds the failure event of eventType for p.
func BuildCirculationFailed(
	eventType string,
	patronID uuid.UUID,
	poolID PoolIDString,
	p *problem.Problem,
	occurredAt time.Time,
) CirculationFailed {

	return CirculationFailed{
		Type:        eventType,
		PatronID:    patronID.String(),
		PoolID:      poolID,
		ProblemKind: p.Kind.String(),
		FailureInfo: p.Detail,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e CirculationFailed) EventType() string        { return e.Type }
func (e CirculationFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e CirculationFailed) IsErrorEvent() bool       { return true }
