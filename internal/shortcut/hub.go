// Package shortcut classifies keyboard input into actions and applies them
// to the settings and stats stores.
package shortcut

import "github.com/verte-zerg/saytui/internal/model"

// EventKind distinguishes key transitions.
type EventKind int

// Key transitions.
const (
	KeyDown EventKind = iota
	KeyUp
)

// Listener receives key events.
type Listener func(ev *model.KeyEvent)

// ListenerID identifies a registered listener.
type ListenerID uint64

type registration struct {
	id   ListenerID
	kind EventKind
	fn   Listener
}

// Hub is the event target keyboard listeners attach to. It is not safe for
// concurrent use; events are emitted from a single event loop.
type Hub struct {
	next      ListenerID
	listeners []registration
}

// NewHub returns a Hub with no listeners.
func NewHub() *Hub {
	return &Hub{}
}

// AddListener registers fn for kind and returns its handle.
func (h *Hub) AddListener(kind EventKind, fn Listener) ListenerID {
	h.next++
	h.listeners = append(h.listeners, registration{id: h.next, kind: kind, fn: fn})
	return h.next
}

// RemoveListener unregisters id. Unknown ids are ignored.
func (h *Hub) RemoveListener(id ListenerID) {
	for i, r := range h.listeners {
		if r.id == id {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of registered listeners.
func (h *Hub) ListenerCount() int {
	return len(h.listeners)
}

// Emit delivers ev to every listener registered for kind, in registration
// order.
func (h *Hub) Emit(kind EventKind, ev *model.KeyEvent) {
	snapshot := make([]registration, len(h.listeners))
	copy(snapshot, h.listeners)
	for _, r := range snapshot {
		if r.kind == kind {
			r.fn(ev)
		}
	}
}
