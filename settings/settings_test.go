package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/policy"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/settings"
)

func Test_MemoryStore(t *testing.T) {
	// setup
	ctx := context.Background()
	store := settings.NewMemoryStore()

	// act
	require.NoError(t, store.Set(ctx, settings.Sitewide, settings.KeySecretKey, "secret"))
	require.NoError(t, store.Set(ctx, "main", settings.KeyMaxOutstandingFines, "$5.00"))
	require.NoError(t, store.Delete(ctx, "main", "never-set"))

	// assert
	value, ok, err := store.Get(ctx, settings.Sitewide, settings.KeySecretKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "secret", value)

	_, ok, err = store.Get(ctx, "main", settings.KeySecretKey)
	require.NoError(t, err)
	assert.False(t, ok, "settings are scoped per library")

	all, err := store.All(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{settings.KeyMaxOutstandingFines: "$5.00"}, all)

	assert.ErrorIs(t, store.Set(ctx, "main", "", "x"), settings.ErrEmptyKey)
}

func Test_Admin_Put_Errors(t *testing.T) {
	testCases := []struct {
		name          string
		key           string
		value         string
		expectedErr   error
		expectedInMsg string
	}{
		{name: "missing key", key: "", value: "x", expectedErr: settings.ErrMissingSitewideSettingKey},
		{name: "missing value", key: settings.KeySecretKey, value: "", expectedErr: settings.ErrMissingSitewideSettingValue},
		{name: "bad url", key: settings.KeyBaseURL, value: "bad_url", expectedErr: settings.ErrInvalidURL, expectedInMsg: "bad_url"},
		{name: "not a number", key: settings.KeyGroupedMaxAge, value: "not a number!", expectedErr: settings.ErrInvalidNumber, expectedInMsg: "not a number!"},
		{
			name:          "negative cache time",
			key:           settings.KeyStaticFileCacheTime,
			value:         "-5",
			expectedErr:   settings.ErrInvalidNumber,
			expectedInMsg: "Cache time for static images and JS and CSS files (in seconds) must be greater than 0.",
		},
		{name: "malformed lending policy", key: settings.KeyLendingPolicy, value: "{", expectedErr: settings.ErrInvalidJSON},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			store := settings.NewMemoryStore()
			admin := settings.NewAdmin(store)

			// act
			err := admin.Put(context.Background(), tc.key, tc.value)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.ErrorContains(t, err, tc.expectedInMsg)

			all, allErr := store.All(context.Background(), settings.Sitewide)
			require.NoError(t, allErr)
			assert.Empty(t, all)
		})
	}
}

func Test_Admin_PutListDelete(t *testing.T) {
	// setup
	ctx := context.Background()
	store := settings.NewMemoryStore()
	admin := settings.NewAdmin(store)

	// arrange
	require.NoError(t, store.Set(ctx, settings.Sitewide, "unrelated", "hidden"))

	// act
	require.NoError(t, admin.Put(ctx, settings.KeyGroupedMaxAge, "10"))
	require.NoError(t, admin.Put(ctx, settings.KeyGroupedMaxAge, "20"))
	require.NoError(t, admin.Put(ctx, settings.KeySecretKey, "secret"))
	listing, err := admin.List(ctx)
	require.NoError(t, err)

	// assert
	assert.Equal(t, []settings.Setting{
		{Key: settings.KeyGroupedMaxAge, Value: "20"},
		{Key: settings.KeySecretKey, Value: "secret"},
	}, listing.Settings)
	assert.Len(t, listing.AllSettings, len(settings.SitewideDefinitions()))

	// act
	require.NoError(t, admin.Delete(ctx, settings.KeyGroupedMaxAge))

	// assert
	_, ok, err := store.Get(ctx, settings.Sitewide, settings.KeyGroupedMaxAge)
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_LoadPolicy(t *testing.T) {
	// setup
	ctx := context.Background()
	store := settings.NewMemoryStore()

	// arrange
	require.NoError(t, store.Set(ctx, settings.Sitewide, settings.KeyHoldPolicy, "hide"))
	require.NoError(t, store.Set(ctx, settings.Sitewide, settings.KeyExternalTypeRegexp, `^(\d)`))
	require.NoError(t, store.Set(ctx, settings.Sitewide, settings.KeyLendingPolicy, `{"1": {"audiences": ["Children"]}}`))
	require.NoError(t, store.Set(ctx, "main", settings.KeyMaxOutstandingFines, "$10.00"))

	// act
	cfg, err := settings.LoadPolicy(ctx, store, "main")

	// assert
	require.NoError(t, err)
	assert.True(t, cfg.HoldsHidden())
	assert.Equal(t, "1", cfg.ClassificationKey("152"))
	assert.Equal(t, policy.LendingPolicy{"1": {core.AudienceChildren}}, cfg.LendingPolicy())

	threshold, ok := cfg.MaxOutstandingFines()
	assert.True(t, ok)
	assert.Equal(t, core.Money(1000), threshold)
}

func Test_LoadPolicy_Defaults(t *testing.T) {
	// act
	cfg, err := settings.LoadPolicy(context.Background(), settings.NewMemoryStore(), "main")

	// assert
	require.NoError(t, err)
	assert.False(t, cfg.HoldsHidden())

	_, ok := cfg.MaxOutstandingFines()
	assert.False(t, ok)
}

func Test_LoadPolicy_FailsFast(t *testing.T) {
	testCases := []struct {
		name    string
		library string
		key     string
		value   string
	}{
		{name: "hold policy", library: settings.Sitewide, key: settings.KeyHoldPolicy, value: "sometimes"},
		{name: "regexp", library: settings.Sitewide, key: settings.KeyExternalTypeRegexp, value: "("},
		{name: "lending policy", library: settings.Sitewide, key: settings.KeyLendingPolicy, value: `["Children"]`},
		{name: "fines", library: "main", key: settings.KeyMaxOutstandingFines, value: "ten dollars"},
		{name: "fines with second sign", library: "main", key: settings.KeyMaxOutstandingFines, value: "5.-5"},
		{name: "negative fines", library: "main", key: settings.KeyMaxOutstandingFines, value: "-1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			store := settings.NewMemoryStore()
			require.NoError(t, store.Set(context.Background(), tc.library, tc.key, tc.value))

			// act
			_, err := settings.LoadPolicy(context.Background(), store, "main")

			// assert
			assert.Error(t, err)
		})
	}
}
