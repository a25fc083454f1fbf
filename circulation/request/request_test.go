package request_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/request"
)

func Test_LoadPagination(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected request.Pagination
	}{
		{name: "defaults", query: "", expected: request.Pagination{Offset: 0, Size: 50}},
		{name: "size and offset", query: "size=10&after=20", expected: request.Pagination{Offset: 20, Size: 10}},
		{name: "size is capped", query: "size=1000", expected: request.Pagination{Offset: 0, Size: 100}},
		{name: "zero offset", query: "size=1&after=0", expected: request.Pagination{Offset: 0, Size: 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			params, err := url.ParseQuery(tc.query)
			require.NoError(t, err)

			// act
			pagination, err := request.LoadPagination(params)

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.expected, pagination)
		})
	}
}

func Test_LoadPagination_Invalid(t *testing.T) {
	testCases := []struct {
		query          string
		expectedDetail string
	}{
		{query: "size=string", expectedDetail: "Invalid size: string"},
		{query: "after=string", expectedDetail: "Invalid offset: string"},
		{query: "size=-10", expectedDetail: "Invalid size: -10"},
		{query: "size=0", expectedDetail: "Invalid size: 0"},
		{query: "after=-3", expectedDetail: "Invalid offset: -3"},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			// arrange
			params, err := url.ParseQuery(tc.query)
			require.NoError(t, err)

			// act
			_, err = request.LoadPagination(params)

			// assert
			p, ok := problem.As(err)
			require.True(t, ok)
			assert.Equal(t, problem.InvalidInput, p.Kind)
			assert.Equal(t, tc.expectedDetail, p.Detail)
		})
	}
}

func Test_Pagination_Next(t *testing.T) {
	assert.Equal(t, request.Pagination{Offset: 60, Size: 30}, request.Pagination{Offset: 30, Size: 30}.Next())
}

func Test_LoadFacets(t *testing.T) {
	// act
	byDefault, err := request.LoadFacets(url.Values{})
	require.NoError(t, err)
	byTitle, err := request.LoadFacets(url.Values{"order": {"title"}})
	require.NoError(t, err)
	_, invalidErr := request.LoadFacets(url.Values{"order": {"nosuchorder"}})

	// assert
	assert.Equal(t, request.OrderAuthor, byDefault.Order)
	assert.Equal(t, request.OrderTitle, byTitle.Order)
	assert.Equal(t, problem.InvalidInput, problem.KindOf(invalidErr))
}
