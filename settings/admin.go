package settings

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var (
	ErrMissingSitewideSettingKey   = errors.New("a sitewide setting key is required")
	ErrMissingSitewideSettingValue = errors.New("a sitewide setting value is required")
	ErrInvalidURL                  = errors.New("invalid URL")
	ErrInvalidNumber               = errors.New("invalid number")
	ErrInvalidJSON                 = errors.New("invalid JSON")
)

// Setting is one stored key and value.
type Setting struct {
	Key   string
	Value string
}

// Listing is what an administrator sees: the stored sitewide settings and every known one.
type Listing struct {
	Settings    []Setting
	AllSettings []Definition
}

// Admin edits sitewide settings, validating values of known keys.
type Admin struct {
	store Store
}

func NewAdmin(store Store) Admin {
	return Admin{store: store}
}

// Put creates or replaces a sitewide setting.
func (a Admin) Put(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrMissingSitewideSettingKey
	}

	if value == "" {
		return ErrMissingSitewideSettingValue
	}

	if err := validate(key, value); err != nil {
		return err
	}

	return a.store.Set(ctx, Sitewide, key, value)
}

// Delete removes a sitewide setting.
func (a Admin) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrMissingSitewideSettingKey
	}

	return a.store.Delete(ctx, Sitewide, key)
}

// List returns the stored sitewide settings of known keys, ordered by key.
func (a Admin) List(ctx context.Context) (Listing, error) {
	all, err := a.store.All(ctx, Sitewide)
	if err != nil {
		return Listing{}, err
	}

	stored := make([]Setting, 0, len(all))
	for key, value := range all {
		if _, known := definitionOf(key); known {
			stored = append(stored, Setting{Key: key, Value: value})
		}
	}

	slices.SortFunc(stored, func(x, y Setting) int {
		return strings.Compare(x.Key, y.Key)
	})

	return Listing{Settings: stored, AllSettings: SitewideDefinitions()}, nil
}

func validate(key, value string) error {
	definition, known := definitionOf(key)
	if !known {
		return nil
	}

	switch definition.format {
	case formatURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %q is not a valid URL", ErrInvalidURL, value)
		}

	case formatNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("%w: %s must be a number, got %q", ErrInvalidNumber, definition.Label, value)
		}

	case formatPositiveNumber:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number, got %q", ErrInvalidNumber, definition.Label, value)
		}

		if n <= 0 {
			return fmt.Errorf("%w: %s must be greater than 0.", ErrInvalidNumber, definition.Label)
		}

	case formatJSON:
		if !jsoniter.Valid([]byte(value)) {
			return fmt.Errorf("%w: %s", ErrInvalidJSON, definition.Label)
		}
	}

	return nil
}
