package core

import (
	"time"

	"github.com/google/uuid"
)

const (
	PatronEnrolledEventType = "PatronEnrolled"
	PatronUpdatedEventType  = "PatronUpdated"
	FinesAssessedEventType  = "FinesAssessed"
)

// PatronEnrolled records the first successful identity verification of a patron.
type PatronEnrolled struct {
	PatronID                PatronIDString
	Provider                string
	PermanentID             string
	AuthorizationIdentifier string
	ExternalType            string
	OccurredAt              OccurredAtTS
}

func BuildPatronEnrolled(
	patronID uuid.UUID,
	provider string,
	permanentID string,
	authorizationIdentifier string,
	externalType string,
	occurredAt time.Time,
) PatronEnrolled {

	return PatronEnrolled{
		PatronID:                patronID.String(),
		Provider:                provider,
		PermanentID:             permanentID,
		AuthorizationIdentifier: authorizationIdentifier,
		ExternalType:            externalType,
		OccurredAt:              ToOccurredAt(occurredAt),
	}
}

func (e PatronEnrolled) EventType() string        { return PatronEnrolledEventType }
func (e PatronEnrolled) HasOccurredAt() time.Time { return e.OccurredAt }
func (e PatronEnrolled) IsErrorEvent() bool       { return false }

// PatronUpdated records a changed external type (e.g. a student moved up a grade band).
type PatronUpdated struct {
	PatronID                PatronIDString
	AuthorizationIdentifier string
	ExternalType            string
	OccurredAt              OccurredAtTS
}

func BuildPatronUpdated(patronID uuid.UUID, authorizationIdentifier, externalType string, occurredAt time.Time) PatronUpdated {
	return PatronUpdated{
		PatronID:                patronID.String(),
		AuthorizationIdentifier: authorizationIdentifier,
		ExternalType:            externalType,
		OccurredAt:              ToOccurredAt(occurredAt),
	}
}

func (e PatronUpdated) EventType() string        { return PatronUpdatedEventType }
func (e PatronUpdated) HasOccurredAt() time.Time { return e.OccurredAt }
func (e PatronUpdated) IsErrorEvent() bool       { return false }

// FinesAssessed sets the patron's outstanding fines balance.
type FinesAssessed struct {
	PatronID   PatronIDString
	Fines      Money
	OccurredAt OccurredAtTS
}

func BuildFinesAssessed(patronID uuid.UUID, fines Money, occurredAt time.Time) FinesAssessed {
	return FinesAssessed{
		PatronID:   patronID.String(),
		Fines:      fines,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e FinesAssessed) EventType() string        { return FinesAssessedEventType }
func (e FinesAssessed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e FinesAssessed) IsErrorEvent() bool       { return false }
