package gesture

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/pose"
)

// EventKind distinguishes the gesture lifecycle notifications.
type EventKind string

const (
	// EventStart fires when a gesture first crosses the minimum
	// confidence for a hand.
	EventStart EventKind = "gesturestart"
	// EventUpdate fires for each subsequent tick the gesture stays
	// above the minimum confidence.
	EventUpdate EventKind = "gestureupdate"
	// EventEnd fires when the gesture drops below the minimum
	// confidence, the hand is lost, or the gesture is disabled.
	EventEnd EventKind = "gestureend"
)

// Event is the payload delivered to subscribers for every lifecycle
// transition.
type Event struct {
	Kind       EventKind          `json:"kind"`
	Name       string             `json:"name"`
	Hand       pose.Handedness    `json:"hand"`
	Confidence float64            `json:"confidence"`
	Data       map[string]float64 `json:"data,omitempty"`
}

type subscription struct {
	id string
	fn func(Event)
}

// Emitter fans events out to subscribers synchronously, in
// subscription order. Dispatch copies the subscriber list first, so a
// subscriber may subscribe or unsubscribe from within its callback.
type Emitter struct {
	mu   sync.RWMutex
	subs []subscription
}

// NewEmitter creates an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Subscribe registers a callback and returns a handle for
// Unsubscribe.
func (e *Emitter) Subscribe(fn func(Event)) string {
	if fn == nil {
		return ""
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := uuid.New().String()
	e.subs = append(e.subs, subscription{id: id, fn: fn})
	return id
}

// Unsubscribe removes the subscription with the given handle.
// Unknown handles are ignored.
func (e *Emitter) Unsubscribe(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, sub := range e.subs {
		if sub.id == id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return
		}
	}
}

// Emit delivers the event to every subscriber in order.
func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	subs := make([]subscription, len(e.subs))
	copy(subs, e.subs)
	e.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(ev)
	}
}
