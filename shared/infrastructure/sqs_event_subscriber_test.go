package infrastructure

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/campushq/enrollment-system/shared/events"
	"github.com/campushq/enrollment-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publisherBody(t *testing.T, event *events.Event) []byte {
	t.Helper()

	payload, err := event.MarshalPayload()
	require.NoError(t, err)

	body, err := json.Marshal(snsMessage{
		ID:            event.ID.String(),
		Metadata:      event.Metadata,
		Topic:         event.Topic.String(),
		CorrelationID: event.CorrelationID.String(),
		AggregateID:   event.AggregateID.String(),
		Payload:       payload,
		Timestamp:     event.Timestamp,
	})
	require.NoError(t, err)
	return body
}

func TestDecodeMessageBody_PublisherEnvelope(t *testing.T) {
	original := events.NewEvent(models.GenerateUUID(), "payment.completed", map[string]interface{}{
		"payment_id": "pay-1",
	}).WithCorrelationID(models.GenerateUUID()).WithMetadata("saga_id", "s-1")

	event, err := decodeMessageBody(publisherBody(t, original))

	require.NoError(t, err)
	assert.Equal(t, original.ID, event.ID)
	assert.Equal(t, original.AggregateID, event.AggregateID)
	assert.Equal(t, "payment.completed", event.EventType)
	assert.Equal(t, original.CorrelationID, event.CorrelationID)

	id, ok := event.Metadata.Get("saga_id")
	require.True(t, ok)
	assert.Equal(t, "s-1", id)

	var payload map[string]interface{}
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, "pay-1", payload["payment_id"])
}

func TestDecodeMessageBody_SNSNotificationEnvelope(t *testing.T) {
	original := events.NewEvent(models.GenerateUUID(), "payment.completed", map[string]interface{}{
		"payment_id": "pay-1",
	})

	// SNS wraps the published message into a Notification envelope before
	// delivering it to a subscribed SQS queue.
	notification, err := json.Marshal(map[string]string{
		"Type":    "Notification",
		"Message": string(publisherBody(t, original)),
	})
	require.NoError(t, err)

	event, err := decodeMessageBody(notification)

	require.NoError(t, err)
	assert.Equal(t, original.ID, event.ID)
	assert.Equal(t, "payment.completed", event.EventType)

	var payload map[string]interface{}
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, "pay-1", payload["payment_id"])
}

func TestDecodeMessageBody_PlainEvent(t *testing.T) {
	original := events.NewEvent(models.GenerateUUID(), "payment.completed", map[string]interface{}{
		"payment_id": "pay-1",
	})

	body, err := original.ToJSON()
	require.NoError(t, err)

	event, err := decodeMessageBody(body)

	require.NoError(t, err)
	assert.Equal(t, original.ID, event.ID)
	assert.Equal(t, "payment.completed", event.EventType)

	var payload map[string]interface{}
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, "pay-1", payload["payment_id"])
}

func TestDecodeMessageBody_EventTypeBackfilledFromTopic(t *testing.T) {
	body := []byte(`{"id":"evt-1","topic":"payment.completed","data":{}}`)

	event, err := decodeMessageBody(body)

	require.NoError(t, err)
	assert.Equal(t, "payment.completed", event.EventType)
}

func TestDecodeMessageBody_Malformed(t *testing.T) {
	_, err := decodeMessageBody([]byte("not json at all"))
	assert.Error(t, err)
}

func TestDecodeMessageBody_PreservesTimestamp(t *testing.T) {
	original := events.NewEvent(models.GenerateUUID(), "payment.completed", map[string]interface{}{})
	original.Timestamp = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	event, err := decodeMessageBody(publisherBody(t, original))

	require.NoError(t, err)
	assert.True(t, event.Timestamp.Equal(original.Timestamp))
}
