package sse

import "sync"

// Event is one live clock notification pushed to subscribed dashboards.
type Event struct {
	Event string
	Data  interface{}
}

// Hub fans clock events out to every connected subscriber. Slow subscribers
// are skipped rather than blocking the publisher.
type Hub struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]chan Event
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int]chan Event),
	}
}

// Subscribe registers a subscriber and returns its event channel and a
// cleanup function.
func (h *Hub) Subscribe() (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, 10)
	h.subscribers[id] = ch

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(ch)
		}
	}

	return ch, cleanup
}

// Broadcast sends an event to all subscribers without blocking.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
		}
	}
}

// SubscriberCount returns the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
