package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	t.Run("PublishReachesSubscribers", func(t *testing.T) {
		bus := NewEventBus()
		var received []*Event
		bus.Subscribe(EventBookingCreated, func(e *Event) error {
			received = append(received, e)
			return nil
		})

		bus.Publish(&Event{Type: EventBookingCreated, CreatedAt: time.Now()})
		bus.Publish(&Event{Type: EventBookingRejected, CreatedAt: time.Now()})

		require.Len(t, received, 1)
		assert.Equal(t, EventBookingCreated, received[0].Type)
	})

	t.Run("PublishJSON", func(t *testing.T) {
		bus := NewEventBus()
		var got BookingEventPayload
		bus.Subscribe(EventBookingApproved, func(e *Event) error {
			return json.Unmarshal(e.Payload, &got)
		})

		payload := BookingEventPayload{BookingID: 7, ItemID: 5, Status: "APPROVED"}
		require.NoError(t, bus.PublishJSON(EventBookingApproved, payload))

		assert.Equal(t, int64(7), got.BookingID)
		assert.Equal(t, "APPROVED", got.Status)
	})

	t.Run("MultipleSubscribers", func(t *testing.T) {
		bus := NewEventBus()
		calls := 0
		bus.Subscribe(EventBookingCreated, func(*Event) error { calls++; return nil })
		bus.Subscribe(EventBookingCreated, func(*Event) error { calls++; return nil })

		bus.Publish(&Event{Type: EventBookingCreated})
		assert.Equal(t, 2, calls)
	})

	t.Run("NilBusIsSafe", func(t *testing.T) {
		var bus *EventBus
		assert.NoError(t, bus.PublishJSON(EventBookingCreated, "x"))
	})
}
