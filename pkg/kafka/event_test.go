package kafka

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]string{"sku": "abc"}

	event, err := NewEvent("cart.updated", "cart-1", "cart", "storefront", payload)
	require.NoError(t, err)

	assert.Equal(t, "cart.updated", event.EventType)
	assert.Equal(t, "cart-1", event.AggregateID)
	assert.Equal(t, "cart", event.AggregateType)
	assert.Equal(t, "storefront", event.Source)
	assert.False(t, event.Timestamp.IsZero())

	_, err = uuid.Parse(event.EventID)
	assert.NoError(t, err, "event ID should be a valid UUID")
}

func TestEventMarshalRoundTrip(t *testing.T) {
	type cartUpdated struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}

	event, err := NewEvent("cart.updated", "cart-1", "cart", "storefront", cartUpdated{
		ProductID: "p-1",
		Quantity:  3,
	})
	require.NoError(t, err)
	event.WithCorrelationID("corr-123")

	data, err := event.Marshal()
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "corr-123", decoded.CorrelationID)

	var got cartUpdated
	require.NoError(t, decoded.UnmarshalData(&got))
	assert.Equal(t, "p-1", got.ProductID)
	assert.Equal(t, 3, got.Quantity)
}
