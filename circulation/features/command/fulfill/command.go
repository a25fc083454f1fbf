package fulfill

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
)

const (
	commandType = "FulfillLoan"
)

// Command represents the intent to download a borrowed title.
// A zero Mechanism means "the mechanism the loan is locked to".
type Command struct {
	PatronID   uuid.UUID
	Pool       core.LicensePool
	Mechanism  core.DeliveryMechanism
	OccurredAt core.OccurredAtTS
}

// CommandType returns the command type identifier.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	patronID uuid.UUID,
	pool core.LicensePool,
	mechanism core.DeliveryMechanism,
	occurredAt time.Time,
) Command {

	return Command{
		PatronID:   patronID,
		Pool:       pool,
		Mechanism:  mechanism.Normalized(),
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
