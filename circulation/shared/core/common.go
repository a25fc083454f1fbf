package core

import (
	"time"

	"github.com/google/uuid"
)

// PatronIDString identifies a patron; it is a UUID derived from the identity provider account.
type PatronIDString = string

// PoolIDString identifies a license pool: data source and identifier.
type PoolIDString = string

// OccurredAtTS is when an event occurred.
type OccurredAtTS = time.Time

// ToOccurredAt normalizes to UTC with microsecond precision, which is what Postgres stores.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

var patronNamespace = uuid.MustParse("7f1d0a4e-3c43-4c49-9d5e-2b3c1f7d9a60")

// PatronIDFor derives a stable patron id from the identity provider and the provider's permanent id,
// so that enrolling the same account twice yields the same patron.
func PatronIDFor(provider, permanentID string) uuid.UUID {
	return uuid.NewSHA1(patronNamespace, []byte(provider+"\x00"+permanentID))
}

// PoolIDFor builds the id of the license pool of identifier at dataSource.
func PoolIDFor(dataSource, identifier string) PoolIDString {
	return dataSource + "/" + identifier
}
