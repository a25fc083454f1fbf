package assessfines

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
)

const (
	commandType = "AssessFines"
)

// Command sets the patron's outstanding fines to an absolute balance.
type Command struct {
	PatronID   uuid.UUID
	Fines      core.Money
	OccurredAt core.OccurredAtTS
}

// CommandType returns the command type identifier.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(patronID uuid.UUID, fines core.Money, occurredAt time.Time) Command {
	return Command{
		PatronID:   patronID,
		Fines:      fines,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
