package collections

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/circulation-manager-go/settings"
)

// Estimate classifies the library's holdings and stores the three language lists as library
// settings, overriding earlier values.
func Estimate(ctx context.Context, holdings HoldingsSource, store settings.Store, library string) (Classification, error) {
	h, err := holdings.HoldingsByLanguage(ctx, library)
	if err != nil {
		return Classification{}, err
	}

	c := Classify(h)

	for _, setting := range []struct {
		key       string
		languages []string
	}{
		{settings.KeyLargeCollections, c.Large},
		{settings.KeySmallCollections, c.Small},
		{settings.KeyTinyCollections, c.Tiny},
	} {
		value, marshalErr := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(setting.languages)
		if marshalErr != nil {
			return Classification{}, marshalErr
		}

		if err = store.Set(ctx, library, setting.key, value); err != nil {
			return Classification{}, err
		}
	}

	return c, nil
}

// Load reads the stored language lists of the library. When the large collection list was never
// set, all three lists are estimated first.
func Load(ctx context.Context, holdings HoldingsSource, store settings.Store, library string) (Classification, error) {
	_, ok, err := store.Get(ctx, library, settings.KeyLargeCollections)
	if err != nil {
		return Classification{}, err
	}

	if !ok {
		return Estimate(ctx, holdings, store, library)
	}

	var c Classification

	for _, setting := range []struct {
		key       string
		languages *[]string
	}{
		{settings.KeyLargeCollections, &c.Large},
		{settings.KeySmallCollections, &c.Small},
		{settings.KeyTinyCollections, &c.Tiny},
	} {
		raw, found, getErr := store.Get(ctx, library, setting.key)
		if getErr != nil {
			return Classification{}, getErr
		}

		*setting.languages = []string{}

		if !found {
			continue
		}

		if err = jsoniter.UnmarshalFromString(raw, setting.languages); err != nil {
			return Classification{}, fmt.Errorf("setting %q: %w", setting.key, err)
		}
	}

	return c, nil
}
