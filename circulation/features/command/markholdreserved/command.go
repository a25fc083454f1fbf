package markholdreserved

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
)

const (
	commandType = "MarkHoldReserved"
)

// Command represents a vendor's notice that the patron's hold is ready.
type Command struct {
	PatronID   uuid.UUID
	PoolID     core.PoolIDString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the command type identifier.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(patronID uuid.UUID, poolID core.PoolIDString, occurredAt time.Time) Command {
	return Command{
		PatronID:   patronID,
		PoolID:     poolID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
