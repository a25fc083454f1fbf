package revoke

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
)

const (
	commandType = "RevokeLoanOrHold"
)

// Command represents the intent to return a loan or give up a hold.
type Command struct {
	PatronID   uuid.UUID
	Pool       core.LicensePool
	OccurredAt core.OccurredAtTS
}

// CommandType returns the command type identifier.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(patronID uuid.UUID, pool core.LicensePool, occurredAt time.Time) Command {
	return Command{
		PatronID:   patronID,
		Pool:       pool,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
