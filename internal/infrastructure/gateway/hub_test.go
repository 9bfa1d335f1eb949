package gateway

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"togetherwatch/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_DeliverToRecipients(t *testing.T) {
	hub := NewHub(nil, testNopLogger())

	a := newClient("conn-a", nil, 8, nil)
	b := newClient("conn-b", nil, 8, nil)
	c := newClient("conn-c", nil, 8, nil)
	hub.register(a)
	hub.register(b)
	hub.register(c)

	event := domain.Event{
		Type:    domain.EventUserJoined,
		Payload: domain.UserJoinedPayload{UserName: "Alice"},
	}
	hub.Deliver(event, []domain.ConnID{"conn-a", "conn-b"})

	require.Len(t, a.send, 1)
	require.Len(t, b.send, 1)
	assert.Empty(t, c.send)

	var got domain.Event
	require.NoError(t, json.Unmarshal(<-a.send, &got))
	assert.Equal(t, domain.EventUserJoined, got.Type)
}

func TestHub_DeliverSkipsUnknownConnections(t *testing.T) {
	hub := NewHub(nil, testNopLogger())

	a := newClient("conn-a", nil, 8, nil)
	hub.register(a)

	hub.Deliver(domain.Event{Type: domain.EventStopTyping}, []domain.ConnID{"conn-a", "conn-gone"})

	assert.Len(t, a.send, 1)
}

func TestHub_DeliverDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(nil, testNopLogger())

	// Buffer of one: the second delivery has nowhere to go.
	a := newClient("conn-a", nil, 1, nil)
	hub.register(a)

	hub.Deliver(domain.Event{Type: domain.EventStopTyping}, []domain.ConnID{"conn-a"})
	hub.Deliver(domain.Event{Type: domain.EventStopTyping}, []domain.ConnID{"conn-a"})

	assert.Len(t, a.send, 1)
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(nil, testNopLogger())

	a := newClient("conn-a", nil, 8, nil)
	hub.register(a)
	assert.Equal(t, 1, hub.ConnectionCount())

	hub.unregister("conn-a")
	assert.Equal(t, 0, hub.ConnectionCount())

	hub.Deliver(domain.Event{Type: domain.EventStopTyping}, []domain.ConnID{"conn-a"})
	assert.Empty(t, a.send)
}

func TestHub_ConcurrentDeliveriesKeepOneOrderPerRoom(t *testing.T) {
	const (
		senders    = 8
		perSender  = 200
		totalSends = senders * perSender
	)

	hub := NewHub(nil, testNopLogger())

	a := newClient("conn-a", nil, totalSends, nil)
	b := newClient("conn-b", nil, totalSends, nil)
	hub.register(a)
	hub.register(b)

	recipients := []domain.ConnID{"conn-a", "conn-b"}

	var wg sync.WaitGroup
	for s := 0; s < senders; s++ {
		wg.Add(1)
		go func(s int) {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				hub.Deliver(domain.Event{
					Type: domain.EventReceiveMessage,
					Payload: domain.ReceiveMessagePayload{
						ID: fmt.Sprintf("s%d-m%d", s, i),
					},
				}, recipients)
			}
		}(s)
	}
	wg.Wait()

	drain := func(c *client) []string {
		ids := make([]string, 0, totalSends)
		for len(c.send) > 0 {
			var got domain.Event
			require.NoError(t, json.Unmarshal(<-c.send, &got))
			payload, ok := got.Payload.(map[string]interface{})
			require.True(t, ok)
			ids = append(ids, payload["id"].(string))
		}
		return ids
	}

	orderA := drain(a)
	orderB := drain(b)

	// Both recipients saw every broadcast, in the same order.
	require.Len(t, orderA, totalSends)
	assert.Equal(t, orderA, orderB)
}

func TestHub_DeliverWithNoRecipientsIsNoop(t *testing.T) {
	hub := NewHub(nil, testNopLogger())

	a := newClient("conn-a", nil, 8, nil)
	hub.register(a)

	hub.Deliver(domain.Event{Type: domain.EventRoomUsers}, nil)
	assert.Empty(t, a.send)
}
