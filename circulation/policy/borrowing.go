package policy

import (
	"slices"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
)

const (
	holdsProhibited            = "Library policy prohibits the placement of holds."
	lendingProhibited          = "Library policy prohibits us from lending you this book."
	finesOutstanding           = "You must pay your outstanding fines before you can borrow more books."
	unavailableForLegalReasons = 451
)

// ApplyBorrowingPolicy returns a ForbiddenByPolicy problem when patron may not borrow (or place a hold on)
// pool, and nil when borrowing is allowed. Rules are evaluated in order, the first match wins:
//
//  1. holds are hidden, the pool has no available licenses and is not open access
//  2. the patron's classification key is restricted and the pool's audience is not among its allowed audiences
func ApplyBorrowingPolicy(cfg Configuration, patron core.Patron, pool core.LicensePool) *problem.Problem {
	if cfg.HoldsHidden() && pool.LicensesAvailable == 0 && !pool.OpenAccess {
		return problem.Detailed(problem.ForbiddenByPolicy, holdsProhibited)
	}

	allowed, restricted := cfg.AllowedAudiences(cfg.ClassificationKey(patron.ExternalType))
	if restricted && !slices.Contains(allowed, core.NormalizeAudience(pool.Audience)) {
		return problem.Detailed(problem.ForbiddenByPolicy, lendingProhibited).WithStatus(unavailableForLegalReasons)
	}

	return nil
}

// CheckFines returns a ForbiddenByPolicy problem when the patron's fines exceed the configured maximum.
func CheckFines(cfg Configuration, patron core.Patron) *problem.Problem {
	threshold, ok := cfg.MaxOutstandingFines()
	if ok && patron.Fines > threshold {
		return problem.Detailed(problem.ForbiddenByPolicy, finesOutstanding)
	}

	return nil
}
