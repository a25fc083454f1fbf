package assessfines_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/features/command/assessfines"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/circulation-manager-go/testutil/circulation/fixtures"
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	es := memoryengine.NewEventStore()
	handler := assessfines.NewCommandHandler(es)
	patronID := uuid.New()

	// arrange
	fixtures.GivenEvents(t, es, fixtures.PatronEnrolled(patronID, "A"))

	// act
	result, err := handler.Handle(context.Background(), assessfines.BuildCommand(patronID, core.Money(1250), fixtures.FakeClock))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)

	assessed, ok := fixtures.LastEvent(t, es, patronID).(core.FinesAssessed)
	require.True(t, ok)
	assert.Equal(t, "$12.50", assessed.Fines.String())
}

func Test_CommandHandler_Handle_Error_UnknownPatron(t *testing.T) {
	// setup
	es := memoryengine.NewEventStore()
	handler := assessfines.NewCommandHandler(es)
	patronID := uuid.New()

	// act
	_, err := handler.Handle(context.Background(), assessfines.BuildCommand(patronID, core.Money(1250), fixtures.FakeClock))

	// assert
	assert.Equal(t, problem.InvalidInput, problem.KindOf(err))
	assert.Equal(t, core.AssessingFinesFailedEventType, fixtures.LastEvent(t, es, patronID).EventType())
}
