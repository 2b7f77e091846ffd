package gesture

import (
	"bytes"
	"log"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/pose"
)

// collector records every emitted event in order.
type collector struct {
	events []Event
}

func (c *collector) record(ev Event) {
	c.events = append(c.events, ev)
}

func (c *collector) ofKind(kind EventKind) []Event {
	var out []Event
	for _, ev := range c.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func (c *collector) reset() {
	c.events = nil
}

// fakeDetector drives the evaluator with a controllable confidence.
type fakeDetector struct {
	confidence float64
	noResult   bool
}

func (f *fakeDetector) detect(ctx *HandContext, threshold float64) (Detection, bool) {
	if f.noResult {
		return Detection{}, false
	}
	return Detection{Confidence: f.confidence}, true
}

func newFakeEvaluator(t *testing.T, opts Options, names ...string) (*Evaluator, *collector, map[string]*fakeDetector) {
	t.Helper()

	reg := NewRegistry()
	fakes := make(map[string]*fakeDetector, len(names))
	if opts.Gestures == nil {
		opts.Gestures = make(map[string]GestureConfig)
	}
	for _, name := range names {
		fake := &fakeDetector{}
		fakes[name] = fake
		reg.Register(name, 0.05, fake.detect)
		opts.Gestures[name] = GestureConfig{Enabled: true}
	}

	emitter := NewEmitter()
	col := &collector{}
	emitter.Subscribe(col.record)

	return NewEvaluator(opts, reg, emitter), col, fakes
}

// trackedPose is any non-empty joint map; the fake detectors never
// look at it.
func trackedPose() pose.Pose {
	return pose.Pose{pose.Wrist: {X: 0, Y: 0, Z: 0}}
}

func TestEvaluator_Lifecycle(t *testing.T) {
	eval, col, fakes := newFakeEvaluator(t, Options{Enabled: true}, "wave")
	fake := fakes["wave"]

	now := time.Now()
	tick := func(conf float64) {
		fake.confidence = conf
		now = now.Add(16 * time.Millisecond)
		eval.Evaluate(pose.Right, trackedPose(), now)
	}

	// Below threshold from inactive: no event, no state.
	tick(0.2)
	if len(col.events) != 0 {
		t.Fatalf("expected no events below threshold, got %d", len(col.events))
	}

	// Crossing the threshold starts the gesture.
	tick(0.7)
	if len(col.events) != 1 || col.events[0].Kind != EventStart {
		t.Fatalf("expected a single start event, got %+v", col.events)
	}
	if col.events[0].Confidence != 0.7 {
		t.Errorf("expected start confidence 0.7, got %f", col.events[0].Confidence)
	}

	// Staying above threshold updates.
	tick(0.8)
	if len(col.events) != 2 || col.events[1].Kind != EventUpdate {
		t.Fatalf("expected an update event, got %+v", col.events)
	}

	// Dropping below threshold ends with confidence 0.
	tick(0.3)
	if len(col.events) != 3 || col.events[2].Kind != EventEnd {
		t.Fatalf("expected an end event, got %+v", col.events)
	}
	if col.events[2].Confidence != 0 {
		t.Errorf("expected end confidence 0, got %f", col.events[2].Confidence)
	}

	// The gesture can start again after ending.
	tick(0.9)
	if starts := col.ofKind(EventStart); len(starts) != 2 {
		t.Errorf("expected 2 start events over the sequence, got %d", len(starts))
	}
	if ends := col.ofKind(EventEnd); len(ends) != 1 {
		t.Errorf("expected 1 end event over the sequence, got %d", len(ends))
	}

	if active := eval.Active(pose.Right); len(active) != 1 {
		t.Errorf("expected 1 active gesture, got %d", len(active))
	}
}

func TestEvaluator_HandLossClosesAll(t *testing.T) {
	eval, col, fakes := newFakeEvaluator(t, Options{Enabled: true}, "alpha", "beta")
	fakes["alpha"].confidence = 0.9
	fakes["beta"].confidence = 0.8

	now := time.Now()
	eval.Evaluate(pose.Left, trackedPose(), now)
	if starts := col.ofKind(EventStart); len(starts) != 2 {
		t.Fatalf("expected 2 start events, got %d", len(starts))
	}

	col.reset()
	eval.Evaluate(pose.Left, nil, now.Add(16*time.Millisecond))

	ends := col.ofKind(EventEnd)
	if len(ends) != 2 {
		t.Fatalf("expected 2 end events on hand loss, got %d", len(ends))
	}
	for _, ev := range ends {
		if ev.Confidence != 0 {
			t.Errorf("expected end confidence 0, got %f", ev.Confidence)
		}
		if ev.Hand != pose.Left {
			t.Errorf("expected left hand, got %s", ev.Hand)
		}
	}

	if active := eval.Active(pose.Left); len(active) != 0 {
		t.Errorf("expected empty active set after hand loss, got %v", active)
	}

	// The other hand is untouched.
	if active := eval.Active(pose.Right); len(active) != 0 {
		t.Errorf("expected right hand to have no state, got %v", active)
	}
}

func TestEvaluator_Throttling(t *testing.T) {
	opts := Options{
		Enabled:        true,
		UpdateInterval: 100 * time.Millisecond,
	}
	eval, col, fakes := newFakeEvaluator(t, opts, "wave")
	fakes["wave"].confidence = 0.9

	start := time.Now()
	eval.Evaluate(pose.Right, trackedPose(), start)
	if len(col.events) != 1 {
		t.Fatalf("expected 1 event from first tick, got %d", len(col.events))
	}

	// 10ms later: inside the window, the tick is skipped entirely.
	eval.Evaluate(pose.Right, trackedPose(), start.Add(10*time.Millisecond))
	if len(col.events) != 1 {
		t.Fatalf("expected throttled tick to emit nothing, got %d events", len(col.events))
	}

	// A skipped tick must not move the throttle window.
	eval.Evaluate(pose.Right, trackedPose(), start.Add(110*time.Millisecond))
	if len(col.events) != 2 || col.events[1].Kind != EventUpdate {
		t.Fatalf("expected an update after the window elapsed, got %+v", col.events)
	}
}

func TestEvaluator_WebXRProviderBypassesThrottle(t *testing.T) {
	opts := Options{
		Enabled:        true,
		Provider:       ProviderWebXR,
		UpdateInterval: 100 * time.Millisecond,
	}
	eval, col, fakes := newFakeEvaluator(t, opts, "wave")
	fakes["wave"].confidence = 0.9

	start := time.Now()
	eval.Evaluate(pose.Right, trackedPose(), start)
	eval.Evaluate(pose.Right, trackedPose(), start.Add(10*time.Millisecond))

	if len(col.events) != 2 {
		t.Fatalf("expected both ticks to evaluate with webxr provider, got %d events", len(col.events))
	}
}

func TestEvaluator_UnsupportedProviderWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	eval, col, fakes := newFakeEvaluator(t, Options{Enabled: true, Provider: "leapmotion"}, "wave")
	fakes["wave"].confidence = 0.9

	opts := eval.opts
	opts.Provider = "leapmotion"
	eval.SetOptions(opts)

	if n := strings.Count(buf.String(), "unsupported provider"); n != 1 {
		t.Errorf("expected exactly one provider warning, got %d:\n%s", n, buf.String())
	}

	// The engine still evaluates with the built-in heuristics.
	eval.Evaluate(pose.Right, trackedPose(), time.Now())
	if len(col.events) != 1 {
		t.Errorf("expected evaluation to proceed after fallback, got %d events", len(col.events))
	}
}

func TestEvaluator_DisabledGesturePurged(t *testing.T) {
	eval, col, fakes := newFakeEvaluator(t, Options{Enabled: true}, "wave", "other")
	fakes["wave"].confidence = 0.9
	fakes["other"].confidence = 0.9

	now := time.Now()
	eval.Evaluate(pose.Right, trackedPose(), now)
	if starts := col.ofKind(EventStart); len(starts) != 2 {
		t.Fatalf("expected 2 start events, got %d", len(starts))
	}

	// Disable one gesture mid-session; it is never evaluated again
	// but must still be forced to end.
	opts := eval.opts
	opts.Gestures = map[string]GestureConfig{
		"wave":  {Enabled: true},
		"other": {Enabled: false},
	}
	eval.SetOptions(opts)

	col.reset()
	eval.Evaluate(pose.Right, trackedPose(), now.Add(16*time.Millisecond))

	ends := col.ofKind(EventEnd)
	if len(ends) != 1 || ends[0].Name != "other" {
		t.Fatalf("expected a single end for the disabled gesture, got %+v", ends)
	}
	if _, stillActive := eval.Active(pose.Right)["other"]; stillActive {
		t.Error("expected disabled gesture to be purged from the active set")
	}
}

func TestEvaluator_EngineDisabledIsNoOp(t *testing.T) {
	eval, col, fakes := newFakeEvaluator(t, Options{Enabled: false}, "wave")
	fakes["wave"].confidence = 0.9

	eval.Evaluate(pose.Right, trackedPose(), time.Now())
	eval.Evaluate(pose.Right, nil, time.Now())

	if len(col.events) != 0 {
		t.Errorf("expected no events while disabled, got %d", len(col.events))
	}
	if active := eval.Active(pose.Right); len(active) != 0 {
		t.Errorf("expected no state while disabled, got %v", active)
	}
}

func TestEvaluator_NoResultEndsActiveGesture(t *testing.T) {
	// A detector returning no-result is treated as below threshold,
	// so a single missing-joint frame ends an active gesture even
	// though the hand is still tracked.
	eval, col, fakes := newFakeEvaluator(t, Options{Enabled: true}, "wave")
	fake := fakes["wave"]
	fake.confidence = 0.9

	now := time.Now()
	eval.Evaluate(pose.Right, trackedPose(), now)
	if len(col.ofKind(EventStart)) != 1 {
		t.Fatal("expected the gesture to start")
	}

	fake.noResult = true
	col.reset()
	eval.Evaluate(pose.Right, trackedPose(), now.Add(16*time.Millisecond))

	ends := col.ofKind(EventEnd)
	if len(ends) != 1 {
		t.Fatalf("expected a single end event, got %+v", col.events)
	}

	// From inactive, no-result must not produce any event.
	col.reset()
	eval.Evaluate(pose.Right, trackedPose(), now.Add(32*time.Millisecond))
	if len(col.events) != 0 {
		t.Errorf("expected no events from no-result while inactive, got %+v", col.events)
	}
}

func TestEvaluator_ClampsDetectorConfidence(t *testing.T) {
	eval, col, fakes := newFakeEvaluator(t, Options{Enabled: true}, "wave")
	fakes["wave"].confidence = 1.7

	eval.Evaluate(pose.Right, trackedPose(), time.Now())

	if len(col.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(col.events))
	}
	if col.events[0].Confidence != 1.0 {
		t.Errorf("expected clamped confidence 1.0, got %f", col.events[0].Confidence)
	}
}

func TestEvaluator_PinchScenario(t *testing.T) {
	// The worked end-to-end scenario: pinch at 0.02 starts with
	// confidence ~0.556, widening to 0.05 ends it.
	reg := NewRegistry()
	emitter := NewEmitter()
	col := &collector{}
	emitter.Subscribe(col.record)

	opts := Options{
		Enabled: true,
		Gestures: map[string]GestureConfig{
			Pinch: {Enabled: true},
		},
	}
	eval := NewEvaluator(opts, reg, emitter)

	now := time.Now()
	eval.Evaluate(pose.Right, pinchPoseAt(0.02), now)

	if len(col.events) != 1 || col.events[0].Kind != EventStart {
		t.Fatalf("expected a start event, got %+v", col.events)
	}
	want := 1 - 0.02/0.045
	if math.Abs(col.events[0].Confidence-want) > 1e-6 {
		t.Errorf("expected start confidence %f, got %f", want, col.events[0].Confidence)
	}

	eval.Evaluate(pose.Right, pinchPoseAt(0.05), now.Add(16*time.Millisecond))

	if len(col.events) != 2 || col.events[1].Kind != EventEnd {
		t.Fatalf("expected an end event, got %+v", col.events)
	}
	if col.events[1].Confidence != 0 {
		t.Errorf("expected end confidence 0, got %f", col.events[1].Confidence)
	}
}
