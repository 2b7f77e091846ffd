package gesture

import (
	"testing"

	"github.com/ayusman/mudra/internal/pose"
)

func TestEmitter_DeliversInSubscriptionOrder(t *testing.T) {
	em := NewEmitter()

	var order []string
	em.Subscribe(func(ev Event) { order = append(order, "first") })
	em.Subscribe(func(ev Event) { order = append(order, "second") })

	em.Emit(Event{Kind: EventStart, Name: Pinch, Hand: pose.Right})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected delivery in subscription order, got %v", order)
	}
}

func TestEmitter_Unsubscribe(t *testing.T) {
	em := NewEmitter()

	calls := 0
	id := em.Subscribe(func(ev Event) { calls++ })

	em.Emit(Event{Kind: EventStart})
	em.Unsubscribe(id)
	em.Emit(Event{Kind: EventEnd})

	if calls != 1 {
		t.Errorf("expected 1 call after unsubscribe, got %d", calls)
	}

	// Unknown handles are ignored.
	em.Unsubscribe("missing")
	em.Unsubscribe("")
}

func TestEmitter_SubscribeDuringDispatch(t *testing.T) {
	em := NewEmitter()

	added := 0
	em.Subscribe(func(ev Event) {
		if ev.Kind == EventStart {
			em.Subscribe(func(Event) { added++ })
		}
	})

	// Subscribing from within a callback must not deadlock; the new
	// subscriber sees only later events.
	em.Emit(Event{Kind: EventStart})
	if added != 0 {
		t.Errorf("expected new subscriber to miss the in-flight event, got %d calls", added)
	}

	em.Emit(Event{Kind: EventUpdate})
	if added != 1 {
		t.Errorf("expected new subscriber to receive the next event, got %d calls", added)
	}
}

func TestEmitter_NilSubscriber(t *testing.T) {
	em := NewEmitter()

	if id := em.Subscribe(nil); id != "" {
		t.Errorf("expected empty handle for nil subscriber, got %q", id)
	}

	em.Emit(Event{Kind: EventStart})
}
