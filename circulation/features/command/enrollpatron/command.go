package enrollpatron

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/identity"
)

const (
	commandType = "EnrollPatron"
)

// Command represents a verified identity to be enrolled as patron.
type Command struct {
	PatronID   uuid.UUID
	Provider   string
	Patron     identity.PatronData
	OccurredAt core.OccurredAtTS
}

// CommandType returns the command type identifier.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand derives the patron id from provider and the permanent id of data.
func BuildCommand(provider string, data identity.PatronData, occurredAt time.Time) Command {
	return Command{
		PatronID:   core.PatronIDFor(provider, data.PermanentID),
		Provider:   provider,
		Patron:     data,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
