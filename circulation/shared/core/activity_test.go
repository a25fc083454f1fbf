package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
)

func Test_ProjectPatronActivity(t *testing.T) {
	// arrange
	patronID := uuid.New()
	otherPatronID := uuid.New()
	t0 := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	epub := core.DeliveryMechanism{ContentType: "application/epub+zip", DRMScheme: core.NoDRM}

	history := core.DomainEvents{
		core.BuildPatronEnrolled(patronID, "Clever", "p1", "p1", "E", t0),
		core.BuildPatronUpdated(patronID, "p1", "M", t0.Add(time.Minute)),
		core.BuildFinesAssessed(patronID, 250, t0.Add(2*time.Minute)),
		core.BuildLoanStarted(patronID, "pool-a", time.Time{}, t0.Add(3*time.Minute)),
		core.BuildLoanFulfilled(patronID, "pool-a", epub, t0.Add(4*time.Minute)),
		core.BuildHoldPlaced(patronID, "pool-b", 3, t0.Add(5*time.Minute)),
		core.BuildHoldReserved(patronID, "pool-b", t0.Add(6*time.Minute)),
		core.BuildHoldPlaced(patronID, "pool-c", 1, t0.Add(7*time.Minute)),
		core.BuildLoanStarted(patronID, "pool-c", time.Time{}, t0.Add(8*time.Minute)),
		core.BuildLoanStarted(patronID, "pool-d", time.Time{}, t0.Add(9*time.Minute)),
		core.BuildLoanReturned(patronID, "pool-d", t0.Add(10*time.Minute)),
		core.BuildLoanStarted(otherPatronID, "pool-e", time.Time{}, t0),
		core.BuildCirculationFailed(core.BorrowingFailedEventType, patronID, "pool-f", problem.New(problem.ForbiddenByPolicy), t0),
	}

	// act
	activity := core.ProjectPatronActivity(history, patronID.String())

	// assert
	assert.True(t, activity.Enrolled)
	assert.Equal(t, "M", activity.Patron.ExternalType)
	assert.Equal(t, core.Money(250), activity.Patron.Fines)

	loans := activity.Loans()
	require.Len(t, loans, 2)
	assert.Equal(t, "pool-a", loans[0].PoolID)
	assert.Equal(t, epub, loans[0].Fulfillment)
	assert.Equal(t, "pool-c", loans[1].PoolID)

	holds := activity.Holds()
	require.Len(t, holds, 1, "the hold on pool-c is closed by the loan")
	assert.Equal(t, core.HoldStateReserved, holds[0].State())

	_, hasReturned := activity.OpenLoan("pool-d")
	assert.False(t, hasReturned)
}

func Test_ProjectPatronActivity_UnknownPatron(t *testing.T) {
	activity := core.ProjectPatronActivity(nil, uuid.NewString())

	assert.False(t, activity.Enrolled)
	assert.Empty(t, activity.Loans())
	assert.Empty(t, activity.Holds())
}
