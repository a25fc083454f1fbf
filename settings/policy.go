package settings

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/policy"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
)

// LoadPolicy builds the borrowing policy snapshot of library from the sitewide hold policy,
// lending policy and external type expression plus the library's fines threshold.
// Malformed values fail the load instead of surfacing at lookup time.
func LoadPolicy(ctx context.Context, store Store, library string) (policy.Configuration, error) {
	var options []policy.Option

	holdPolicy, ok, err := store.Get(ctx, Sitewide, KeyHoldPolicy)
	if err != nil {
		return policy.Configuration{}, err
	}

	if ok {
		options = append(options, policy.WithHoldPolicy(policy.HoldPolicy(holdPolicy)))
	}

	pattern, ok, err := store.Get(ctx, Sitewide, KeyExternalTypeRegexp)
	if err != nil {
		return policy.Configuration{}, err
	}

	if ok {
		options = append(options, policy.WithExternalTypeRegexp(pattern))
	}

	rawLending, ok, err := store.Get(ctx, Sitewide, KeyLendingPolicy)
	if err != nil {
		return policy.Configuration{}, err
	}

	if ok {
		lending, parseErr := policy.ParseLendingPolicy([]byte(rawLending))
		if parseErr != nil {
			return policy.Configuration{}, fmt.Errorf("setting %q: %w", KeyLendingPolicy, parseErr)
		}

		options = append(options, policy.WithLendingPolicy(lending))
	}

	rawFines, ok, err := store.Get(ctx, library, KeyMaxOutstandingFines)
	if err != nil {
		return policy.Configuration{}, err
	}

	if ok {
		threshold, parseErr := core.ParseMoney(rawFines)
		if parseErr != nil {
			return policy.Configuration{}, fmt.Errorf("setting %q: %w", KeyMaxOutstandingFines, parseErr)
		}

		options = append(options, policy.WithMaxOutstandingFines(threshold))
	}

	cfg, err := policy.NewConfiguration(options...)
	if err != nil {
		return policy.Configuration{}, fmt.Errorf("library %q: %w", library, err)
	}

	return cfg, nil
}
