package markholdreserved_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/features/command/markholdreserved"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/testutil/circulation/fixtures"
)

func Test_Decide(t *testing.T) {
	patronID := uuid.New()
	poolID := core.PoolIDFor("Overdrive", "ISBN-2")
	placed := core.BuildHoldPlaced(patronID, poolID, 4, fixtures.FakeClock)
	later := fixtures.FakeClock.Add(time.Hour)

	testCases := []struct {
		name             string
		history          core.DomainEvents
		expectIdempotent bool
		expectedKind     problem.Kind
	}{
		{name: "queued hold becomes reserved", history: core.DomainEvents{placed}},
		{name: "already reserved", history: core.DomainEvents{placed, core.BuildHoldReserved(patronID, poolID, later)}, expectIdempotent: true},
		{name: "no hold", history: core.DomainEvents{}, expectedKind: problem.NoActiveLoan},
		{name: "released hold", history: core.DomainEvents{placed, core.BuildHoldReleased(patronID, poolID, later)}, expectedKind: problem.NoActiveLoan},
		{name: "hold turned into loan", history: core.DomainEvents{placed, core.BuildLoanStarted(patronID, poolID, time.Time{}, later)}, expectedKind: problem.NoActiveLoan},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := markholdreserved.Decide(tc.history, markholdreserved.BuildCommand(patronID, poolID, later))

			// assert
			assert.Equal(t, tc.expectIdempotent, result.IsIdempotent())
			assert.Equal(t, tc.expectedKind, problem.KindOf(result.HasError()))

			switch {
			case tc.expectedKind != 0:
				assert.Equal(t, core.ReservingHoldFailedEventType, result.Event.EventType())
			case !tc.expectIdempotent:
				assert.Equal(t, core.BuildHoldReserved(patronID, poolID, later), result.Event)
			}
		})
	}
}
