package core

import (
	"cmp"
	"maps"
	"slices"
)

// PatronActivity is a patron with their open loans and holds, folded from events.
type PatronActivity struct {
	Patron   Patron
	Enrolled bool
	loans    map[PoolIDString]Loan
	holds    map[PoolIDString]Hold
}

// ProjectPatronActivity folds history into the activity of patronID. Events of other patrons are ignored,
// so history may be the result of any filter that contains the patron's events.
func ProjectPatronActivity(history DomainEvents, patronID PatronIDString) PatronActivity {
	a := PatronActivity{
		Patron: Patron{ID: patronID},
		loans:  map[PoolIDString]Loan{},
		holds:  map[PoolIDString]Hold{},
	}

	for _, event := range history {
		a.apply(event)
	}

	return a
}

func (a *PatronActivity) apply(event DomainEvent) { //nolint:gocyclo // one case per event type
	patronID := a.Patron.ID

	switch e := event.(type) {
	case PatronEnrolled:
		if e.PatronID == patronID {
			a.Enrolled = true
			a.Patron.AuthorizationIdentifier = e.AuthorizationIdentifier
			a.Patron.ExternalType = e.ExternalType
		}

	case PatronUpdated:
		if e.PatronID == patronID {
			a.Patron.AuthorizationIdentifier = e.AuthorizationIdentifier
			a.Patron.ExternalType = e.ExternalType
		}

	case FinesAssessed:
		if e.PatronID == patronID {
			a.Patron.Fines = e.Fines
		}

	case LoanStarted:
		if e.PatronID == patronID {
			a.loans[e.PoolID] = Loan{PatronID: patronID, PoolID: e.PoolID, Start: e.OccurredAt, End: e.EndsAt}
			delete(a.holds, e.PoolID)
		}

	case LoanFulfilled:
		if loan, ok := a.loans[e.PoolID]; ok && e.PatronID == patronID {
			loan.Fulfillment = e.DeliveryMechanism
			a.loans[e.PoolID] = loan
		}

	case LoanReturned:
		if e.PatronID == patronID {
			delete(a.loans, e.PoolID)
		}

	case HoldPlaced:
		if e.PatronID == patronID {
			a.holds[e.PoolID] = Hold{PatronID: patronID, PoolID: e.PoolID, Start: e.OccurredAt, Position: e.Position}
		}

	case HoldReserved:
		if hold, ok := a.holds[e.PoolID]; ok && e.PatronID == patronID {
			hold.Position = 0
			a.holds[e.PoolID] = hold
		}

	case HoldReleased:
		if e.PatronID == patronID {
			delete(a.holds, e.PoolID)
		}
	}
}

// OpenLoan returns the open loan of poolID.
func (a PatronActivity) OpenLoan(poolID PoolIDString) (Loan, bool) {
	loan, ok := a.loans[poolID]
	return loan, ok
}

// OpenHold returns the open hold of poolID.
func (a PatronActivity) OpenHold(poolID PoolIDString) (Hold, bool) {
	hold, ok := a.holds[poolID]
	return hold, ok
}

// Loans returns all open loans, oldest first.
func (a PatronActivity) Loans() []Loan {
	return slices.SortedFunc(maps.Values(a.loans), func(x, y Loan) int {
		return cmp.Or(x.Start.Compare(y.Start), cmp.Compare(x.PoolID, y.PoolID))
	})
}

// Holds returns all open holds, oldest first.
func (a PatronActivity) Holds() []Hold {
	return slices.SortedFunc(maps.Values(a.holds), func(x, y Hold) int {
		return cmp.Or(x.Start.Compare(y.Start), cmp.Compare(x.PoolID, y.PoolID))
	})
}

// ActivityEventTypes are the event types ProjectPatronActivity folds.
func ActivityEventTypes() []string {
	return []string{
		PatronEnrolledEventType,
		PatronUpdatedEventType,
		FinesAssessedEventType,
		LoanStartedEventType,
		LoanFulfilledEventType,
		LoanReturnedEventType,
		HoldPlacedEventType,
		HoldReservedEventType,
		HoldReleasedEventType,
	}
}
