package database

import "sync"

// EventType classifies a gallery change.
type EventType string

const (
	EventEnrolled EventType = "enrolled"
	EventUpdated  EventType = "updated"
	EventDeleted  EventType = "deleted"
)

// Event describes one change to the enrolled gallery.
type Event struct {
	Type     EventType `json:"type"`
	PersonID string    `json:"person_id"`
	Name     string    `json:"name,omitempty"`
}

// Notifier fans gallery change events out to subscribers. Writes to the
// gallery publish through a shared Notifier so listing clients (the SSE
// endpoint, CLI watchers) can keep a live view without polling.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]struct{}
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[chan Event]struct{})}
}

// Subscribe registers a listener and returns its event channel plus a cancel
// function. The channel is buffered; a subscriber that stops draining loses
// events rather than blocking publishers.
func (n *Notifier) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		if _, ok := n.listeners[ch]; ok {
			delete(n.listeners, ch)
			close(ch)
		}
		n.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber without blocking.
func (n *Notifier) Publish(e Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.listeners {
		select {
		case ch <- e:
		default:
		}
	}
}

// ListenerCount returns the number of active subscribers.
func (n *Notifier) ListenerCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
