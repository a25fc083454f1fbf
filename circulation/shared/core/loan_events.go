package core

import (
	"time"

	"github.com/google/uuid"
)

const (
	LoanStartedEventType   = "LoanStarted"
	LoanFulfilledEventType = "LoanFulfilled"
	LoanReturnedEventType  = "LoanReturned"
)

// LoanStarted records a checkout granted by the vendor. It closes an open hold of the pair.
type LoanStarted struct {
	PatronID   PatronIDString
	PoolID     PoolIDString
	EndsAt     time.Time
	OccurredAt OccurredAtTS
}

func BuildLoanStarted(patronID uuid.UUID, poolID PoolIDString, endsAt time.Time, occurredAt time.Time) LoanStarted {
	if !endsAt.IsZero() {
		endsAt = ToOccurredAt(endsAt)
	}

	return LoanStarted{
		PatronID:   patronID.String(),
		PoolID:     poolID,
		EndsAt:     endsAt,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e LoanStarted) EventType() string        { return LoanStartedEventType }
func (e LoanStarted) HasOccurredAt() time.Time { return e.OccurredAt }
func (e LoanStarted) IsErrorEvent() bool       { return false }

// LoanFulfilled locks the delivery mechanism of a loan.
type LoanFulfilled struct {
	PatronID          PatronIDString
	PoolID            PoolIDString
	DeliveryMechanism DeliveryMechanism
	OccurredAt        OccurredAtTS
}

func BuildLoanFulfilled(patronID uuid.UUID, poolID PoolIDString, mechanism DeliveryMechanism, occurredAt time.Time) LoanFulfilled {
	return LoanFulfilled{
		PatronID:          patronID.String(),
		PoolID:            poolID,
		DeliveryMechanism: mechanism.Normalized(),
		OccurredAt:        ToOccurredAt(occurredAt),
	}
}

func (e LoanFulfilled) EventType() string        { return LoanFulfilledEventType }
func (e LoanFulfilled) HasOccurredAt() time.Time { return e.OccurredAt }
func (e LoanFulfilled) IsErrorEvent() bool       { return false }

// LoanReturned records an early return (revoke) of a loan.
type LoanReturned struct {
	PatronID   PatronIDString
	PoolID     PoolIDString
	OccurredAt OccurredAtTS
}

func BuildLoanReturned(patronID uuid.UUID, poolID PoolIDString, occurredAt time.Time) LoanReturned {
	return LoanReturned{
		PatronID:   patronID.String(),
		PoolID:     poolID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e LoanReturned) EventType() string        { return LoanReturnedEventType }
func (e LoanReturned) HasOccurredAt() time.Time { return e.OccurredAt }
func (e LoanReturned) IsErrorEvent() bool       { return false }
