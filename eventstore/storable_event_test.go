package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_BuildStorableEvent_ErrorCases(t *testing.T) {
	validTime := time.Now()

	tests := []struct {
		name         string
		eventType    string
		payloadJSON  []byte
		metadataJSON []byte
		expectedErr  error
	}{
		{
			name:         "empty event type",
			eventType:    "",
			payloadJSON:  []byte(`{}`),
			metadataJSON: []byte(`{}`),
			expectedErr:  ErrEmptyEventType,
		},
		{
			name:         "invalid payload JSON",
			eventType:    "LoanStarted",
			payloadJSON:  []byte(`{"PatronID": patron}`),
			metadataJSON: []byte(`{}`),
			expectedErr:  ErrInvalidPayloadJSON,
		},
		{
			name:         "nil payload JSON",
			eventType:    "LoanStarted",
			payloadJSON:  nil,
			metadataJSON: []byte(`{}`),
			expectedErr:  ErrInvalidPayloadJSON,
		},
		{
			name:         "invalid metadata JSON",
			eventType:    "LoanStarted",
			payloadJSON:  []byte(`{"PatronID": "patron-1"}`),
			metadataJSON: []byte(`{"MessageID": }`),
			expectedErr:  ErrInvalidMetadataJSON,
		},
		{
			name:         "empty metadata JSON",
			eventType:    "LoanStarted",
			payloadJSON:  []byte(`{"PatronID": "patron-1"}`),
			metadataJSON: []byte(``),
			expectedErr:  ErrInvalidMetadataJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildStorableEvent(tt.eventType, validTime, tt.payloadJSON, tt.metadataJSON)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_BuildStorableEvent_Success(t *testing.T) {
	occurredAt := time.Now()
	payloadJSON := []byte(`{"PatronID": "patron-1", "PoolID": "pool-1"}`)
	metadataJSON := []byte(`{"CorrelationID": "corr-1"}`)

	storableEvent, err := BuildStorableEvent("LoanStarted", occurredAt, payloadJSON, metadataJSON)

	assert.NoError(t, err)
	assert.Equal(t, "LoanStarted", storableEvent.EventType)
	assert.Equal(t, occurredAt, storableEvent.OccurredAt)
	assert.Equal(t, payloadJSON, storableEvent.PayloadJSON)
	assert.Equal(t, metadataJSON, storableEvent.MetadataJSON)
	assert.Zero(t, storableEvent.SequenceNumber)
}

func Test_BuildStorableEventWithEmptyMetadata_Success(t *testing.T) {
	storableEvent, err := BuildStorableEventWithEmptyMetadata("LoanReturned", time.Now(), []byte(`{"PatronID": "patron-1"}`))

	assert.NoError(t, err)
	assert.Equal(t, []byte(`{}`), storableEvent.MetadataJSON)
}
