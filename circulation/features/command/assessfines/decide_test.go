package assessfines_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/features/command/assessfines"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/testutil/circulation/fixtures"
)

func Test_Decide(t *testing.T) {
	patronID := uuid.New()
	enrolled := fixtures.PatronEnrolled(patronID, "A")
	assessed := core.BuildFinesAssessed(patronID, core.Money(250), fixtures.FakeClock)

	testCases := []struct {
		name             string
		history          core.DomainEvents
		fines            core.Money
		expectIdempotent bool
		expectedKind     problem.Kind
	}{
		{name: "first balance", history: core.DomainEvents{enrolled}, fines: core.Money(250)},
		{name: "paid off", history: core.DomainEvents{enrolled, assessed}, fines: core.Money(0)},
		{name: "unchanged balance", history: core.DomainEvents{enrolled, assessed}, fines: core.Money(250), expectIdempotent: true},
		{name: "zero balance of new patron", history: core.DomainEvents{enrolled}, fines: core.Money(0), expectIdempotent: true},
		{name: "unknown patron", history: core.DomainEvents{}, fines: core.Money(250), expectedKind: problem.InvalidInput},
		{name: "negative balance", history: core.DomainEvents{enrolled}, fines: core.Money(-1), expectedKind: problem.InvalidInput},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := assessfines.Decide(tc.history, assessfines.BuildCommand(patronID, tc.fines, fixtures.FakeClock))

			// assert
			assert.Equal(t, tc.expectIdempotent, result.IsIdempotent())
			assert.Equal(t, tc.expectedKind, problem.KindOf(result.HasError()))

			switch {
			case tc.expectedKind != 0:
				assert.Equal(t, core.AssessingFinesFailedEventType, result.Event.EventType())
			case !tc.expectIdempotent:
				assert.Equal(t, core.BuildFinesAssessed(patronID, tc.fines, fixtures.FakeClock), result.Event)
			}
		})
	}
}
