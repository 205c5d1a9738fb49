package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/response"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/sse"
)

// keepAliveInterval keeps idle SSE connections from being reaped by proxies.
const keepAliveInterval = 30 * time.Second

type EventsHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type EventsHandlerImpl struct {
	hub *sse.Hub
}

func NewEventsHandler(hub *sse.Hub) EventsHandler {
	return &EventsHandlerImpl{hub: hub}
}

// Stream implements EventsHandler. It holds the connection open and relays
// clock events until the client disconnects.
func (h *EventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cleanup := h.hub.Subscribe()
	defer cleanup()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case event, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, payload)
			flusher.Flush()
		}
	}
}
