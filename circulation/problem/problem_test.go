package problem_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
)

func Test_Problem_IsMatchesByKind(t *testing.T) {
	p := problem.Detailed(problem.ForbiddenByPolicy, "Library policy prohibits the placement of holds.")
	wrapped := fmt.Errorf("borrowing: %w", p)

	assert.ErrorIs(t, wrapped, problem.New(problem.ForbiddenByPolicy))
	assert.NotErrorIs(t, wrapped, problem.New(problem.NotEligible))
	assert.Equal(t, problem.ForbiddenByPolicy, problem.KindOf(wrapped))
	assert.Equal(t, problem.Kind(0), problem.KindOf(errors.New("plain")))
}

func Test_Problem_DetailedAndWithStatusCopy(t *testing.T) {
	base := problem.New(problem.ForbiddenByPolicy)

	derived := base.Detailed("Library policy prohibits us from lending you this book.").WithStatus(451)

	assert.Equal(t, 403, base.Status)
	assert.Equal(t, "Library policy prohibits this action.", base.Detail)
	assert.Equal(t, 451, derived.Status)
	assert.Equal(t, "ForbiddenByPolicy: Library policy prohibits us from lending you this book.", derived.Error())
}

func Test_Kind_StringRoundTrip(t *testing.T) {
	for _, k := range []problem.Kind{
		problem.InvalidCredentials,
		problem.UnsupportedUserType,
		problem.NotEligible,
		problem.ForbiddenByPolicy,
		problem.CannotReleaseHold,
		problem.BadDeliveryMechanism,
		problem.NoAvailableCopies,
		problem.InvalidInput,
		problem.NoActiveLoan,
	} {
		parsed, ok := problem.ParseKind(k.String())

		assert.True(t, ok, k.String())
		assert.Equal(t, k, parsed)
	}

	_, ok := problem.ParseKind("Unknown")
	assert.False(t, ok)
}

func Test_Problem_JSON(t *testing.T) {
	tests := []struct {
		name    string
		problem *problem.Problem
	}{
		{
			name:    "cannot_release_hold",
			problem: problem.Detailed(problem.CannotReleaseHold, "Cannot release a hold once it enters reserved state."),
		},
		{
			name:    "not_eligible",
			problem: problem.New(problem.NotEligible),
		},
	}

	g := goldie.New(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered, err := tt.problem.JSON()

			require.NoError(t, err)
			g.Assert(t, tt.name, rendered)
		})
	}
}
