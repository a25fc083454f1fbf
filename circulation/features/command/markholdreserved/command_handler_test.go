package markholdreserved_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/features/command/markholdreserved"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/features/command/revoke"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/vendor"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/circulation-manager-go/testutil/circulation/fixtures"
)

func Test_CommandHandler_Handle_ReservedHoldCannotBeRevoked(t *testing.T) {
	// setup
	es := memoryengine.NewEventStore()
	handler := markholdreserved.NewCommandHandler(es)
	revokeHandler := revoke.NewCommandHandler(es, vendor.NewMockAPI())
	patronID := uuid.New()
	pool := fixtures.UnavailablePool("ISBN-2")

	// arrange
	fixtures.GivenEvents(t, es, core.BuildHoldPlaced(patronID, pool.ID, 1, fixtures.FakeClock))

	// act
	result, err := handler.Handle(context.Background(), markholdreserved.BuildCommand(patronID, pool.ID, fixtures.FakeClock.Add(time.Hour)))
	require.NoError(t, err)
	assert.False(t, result.Idempotent)

	_, err = revokeHandler.Handle(context.Background(), revoke.BuildCommand(patronID, pool, fixtures.FakeClock.Add(2*time.Hour)))

	// assert
	assert.Equal(t, problem.CannotReleaseHold, problem.KindOf(err))
}
