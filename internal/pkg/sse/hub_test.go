package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastReachesAllSubscribers(t *testing.T) {
	h := NewHub()
	ch1, cancel1 := h.Subscribe()
	ch2, cancel2 := h.Subscribe()
	defer cancel1()
	defer cancel2()

	h.Broadcast(Event{Event: "clock", Data: "IN"})

	ev1 := <-ch1
	ev2 := <-ch2
	assert.Equal(t, "clock", ev1.Event)
	assert.Equal(t, "clock", ev2.Event)
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	require.Equal(t, 1, h.SubscriberCount())

	cancel()
	assert.Equal(t, 0, h.SubscriberCount())

	_, open := <-ch
	assert.False(t, open, "channel is closed after cleanup")

	// Second cancel is a no-op.
	cancel()
}

func TestHub_FullChannelDoesNotBlock(t *testing.T) {
	h := NewHub()
	_, cancel := h.Subscribe()
	defer cancel()

	// Channel capacity is 10; extra broadcasts must be dropped, not block.
	for i := 0; i < 25; i++ {
		h.Broadcast(Event{Event: "clock"})
	}
}
