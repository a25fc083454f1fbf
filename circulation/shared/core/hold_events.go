package core

import (
	"time"

	"github.com/google/uuid"
)

const (
	HoldPlacedEventType   = "HoldPlaced"
	HoldReservedEventType = "HoldReserved"
	HoldReleasedEventType = "HoldReleased"
)

// HoldPlaced records a hold placed with the vendor because no copy was available.
type HoldPlaced struct {
	PatronID   PatronIDString
	PoolID     PoolIDString
	Position   int
	OccurredAt OccurredAtTS
}

func BuildHoldPlaced(patronID uuid.UUID, poolID PoolIDString, position int, occurredAt time.Time) HoldPlaced {
	return HoldPlaced{
		PatronID:   patronID.String(),
		PoolID:     poolID,
		Position:   position,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e HoldPlaced) EventType() string        { return HoldPlacedEventType }
func (e HoldPlaced) HasOccurredAt() time.Time { return e.OccurredAt }
func (e HoldPlaced) IsErrorEvent() bool       { return false }

// HoldReserved records that the vendor holds a copy for the patron (position 0).
type HoldReserved struct {
	PatronID   PatronIDString
	PoolID     PoolIDString
	OccurredAt OccurredAtTS
}

func BuildHoldReserved(patronID uuid.UUID, poolID PoolIDString, occurredAt time.Time) HoldReserved {
	return HoldReserved{
		PatronID:   patronID.String(),
		PoolID:     poolID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e HoldReserved) EventType() string        { return HoldReservedEventType }
func (e HoldReserved) HasOccurredAt() time.Time { return e.OccurredAt }
func (e HoldReserved) IsErrorEvent() bool       { return false }

// HoldReleased records a queued hold given up by the patron.
type HoldReleased struct {
	PatronID   PatronIDString
	PoolID     PoolIDString
	OccurredAt OccurredAtTS
}

func BuildHoldReleased(patronID uuid.UUID, poolID PoolIDString, occurredAt time.Time) HoldReleased {
	return HoldReleased{
		PatronID:   patronID.String(),
		PoolID:     poolID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e HoldReleased) EventType() string        { return HoldReleasedEventType }
func (e HoldReleased) HasOccurredAt() time.Time { return e.OccurredAt }
func (e HoldReleased) IsErrorEvent() bool       { return false }
