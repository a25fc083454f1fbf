package core

import (
	"time"
)

// UnknownHoldPosition is the position of a hold the vendor did not report a queue position for.
const UnknownHoldPosition = -1

// Loan is an open loan of one pool to one patron.
type Loan struct {
	PatronID    PatronIDString
	PoolID      PoolIDString
	Start       time.Time
	End         time.Time // zero when open-ended
	Fulfillment DeliveryMechanism
}

// IsFulfilled reports whether a delivery mechanism was locked in.
func (l Loan) IsFulfilled() bool {
	return !l.Fulfillment.IsZero()
}

// Hold is an open hold of one pool for one patron.
type Hold struct {
	PatronID PatronIDString
	PoolID   PoolIDString
	Start    time.Time
	Position int
}

// HoldState is queued while the patron waits, reserved once a copy is held for the patron.
type HoldState string

const (
	HoldStateQueued   HoldState = "queued"
	HoldStateReserved HoldState = "reserved"
)

// State is reserved at position 0; unknown or positive positions are queued.
func (h Hold) State() HoldState {
	if h.Position == 0 {
		return HoldStateReserved
	}

	return HoldStateQueued
}
