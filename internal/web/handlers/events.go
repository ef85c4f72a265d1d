package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/facegate/facegate/internal/database"
)

// EventsHandler streams gallery changes over Server-Sent Events so listing
// clients can stay live without polling.
type EventsHandler struct {
	notifier *database.Notifier
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(notifier *database.Notifier) *EventsHandler {
	return &EventsHandler{notifier: notifier}
}

// sendSSEEvent writes one SSE frame and flushes it.
func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
	flusher.Flush()
}

// Stream subscribes the client to gallery change events until it
// disconnects. GET /api/v1/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := h.notifier.Subscribe()
	defer cancel()

	sendSSEEvent(w, flusher, "connected", map[string]string{"status": "subscribed"})

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			sendSSEEvent(w, flusher, string(event.Type), event)
		}
	}
}
