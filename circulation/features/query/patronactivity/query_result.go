package patronactivity

import (
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

// HoldInfo is an open hold with its state.
type HoldInfo struct {
	core.Hold
	State core.HoldState
}

// Activity represents the query result.
type Activity struct {
	Patron             core.Patron
	Enrolled           bool
	Loans              []core.Loan
	Holds              []HoldInfo
	SequenceNumberSeen eventstore.MaxSequenceNumberUint
}
