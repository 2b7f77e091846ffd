package gesture

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/pose"
)

// activeGesture is the per-gesture state kept while a gesture holds
// above the minimum confidence.
type activeGesture struct {
	confidence float64
	data       map[string]float64
}

// Evaluator runs the enabled detectors against per-hand poses each
// tick and maintains the active-gesture set, emitting start, update
// and end events on every transition.
//
// Evaluation is designed for a single frame-driven goroutine;
// SetOptions may be called from other goroutines (config reload, API)
// and takes effect on the next tick. A gesture holds a slot in a
// hand's active set exactly while its latest evaluation scored at or
// above the minimum confidence with the gesture enabled.
//
// A detector that cannot judge a frame (required joint missing while
// the hand is otherwise tracked) is treated as below threshold, so a
// single bad frame ends an active gesture. On noisy tracking this is
// a known source of gesture flicker.
type Evaluator struct {
	mu       sync.Mutex
	registry *Registry
	emitter  *Emitter

	opts     Options
	interval time.Duration
	minConf  float64

	active   map[pose.Handedness]map[string]*activeGesture
	lastEval map[pose.Handedness]time.Time
	scratch  map[pose.Handedness]*HandContext

	providerWarned bool
}

// NewEvaluator creates an evaluator using the given registry and
// emitter.
func NewEvaluator(opts Options, registry *Registry, emitter *Emitter) *Evaluator {
	e := &Evaluator{
		registry: registry,
		emitter:  emitter,
		active:   make(map[pose.Handedness]map[string]*activeGesture, len(pose.Hands)),
		lastEval: make(map[pose.Handedness]time.Time, len(pose.Hands)),
		scratch:  make(map[pose.Handedness]*HandContext, len(pose.Hands)),
	}

	for _, hand := range pose.Hands {
		e.active[hand] = make(map[string]*activeGesture)
		e.scratch[hand] = &HandContext{Hand: hand}
	}

	e.SetOptions(opts)
	return e
}

// SetOptions replaces the evaluator configuration. Gestures disabled
// by the new configuration are closed on the next evaluation tick.
func (e *Evaluator) SetOptions(opts Options) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch opts.Provider {
	case ProviderHeuristic, "":
		opts.Provider = ProviderHeuristic
		e.interval = opts.UpdateInterval
	case ProviderWebXR:
		// Zero-latency source: never throttle.
		e.interval = 0
	default:
		if !e.providerWarned {
			log.Printf("gesture: unsupported provider %q, using built-in heuristics", opts.Provider)
			e.providerWarned = true
		}
		opts.Provider = ProviderHeuristic
		e.interval = opts.UpdateInterval
	}

	e.minConf = opts.MinimumConfidence
	if e.minConf <= 0 {
		e.minConf = DefaultMinimumConfidence
	}

	e.opts = opts
}

// Evaluate runs one evaluation tick for the given hand. A nil or
// empty joints map means the hand is not tracked this tick, which
// closes every gesture currently active on it.
func (e *Evaluator) Evaluate(hand pose.Handedness, joints pose.Pose, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.opts.Enabled {
		return
	}

	if e.interval > 0 {
		if last, ok := e.lastEval[hand]; ok && now.Sub(last) < e.interval {
			return
		}
	}
	e.lastEval[hand] = now

	active, ok := e.active[hand]
	if !ok {
		active = make(map[string]*activeGesture)
		e.active[hand] = active
	}

	if len(joints) == 0 {
		e.endAll(hand, active)
		return
	}

	ctx, ok := e.scratch[hand]
	if !ok {
		ctx = &HandContext{Hand: hand}
		e.scratch[hand] = ctx
	}
	ctx.Joints = joints

	processed := make(map[string]bool, len(e.opts.Gestures))

	for _, name := range e.enabledNames() {
		fn, ok := e.registry.Detector(name)
		if !ok {
			continue
		}
		processed[name] = true

		threshold := e.opts.Gestures[name].Threshold
		if threshold <= 0 {
			threshold = e.registry.DefaultThreshold(name)
		}

		confidence := 0.0
		var data map[string]float64
		if det, ok := fn(ctx, threshold); ok {
			confidence = clamp(det.Confidence, 0, 1)
			data = det.Data
		}

		state, wasActive := active[name]
		switch {
		case confidence >= e.minConf && !wasActive:
			active[name] = &activeGesture{confidence: confidence, data: data}
			e.emitter.Emit(Event{
				Kind:       EventStart,
				Name:       name,
				Hand:       hand,
				Confidence: confidence,
				Data:       data,
			})

		case confidence >= e.minConf:
			state.confidence = confidence
			state.data = data
			e.emitter.Emit(Event{
				Kind:       EventUpdate,
				Name:       name,
				Hand:       hand,
				Confidence: confidence,
				Data:       data,
			})

		case wasActive:
			delete(active, name)
			e.emitter.Emit(Event{
				Kind:       EventEnd,
				Name:       name,
				Hand:       hand,
				Confidence: 0,
			})
		}
	}

	// Gestures still holding state but not evaluated this tick were
	// disabled mid-session or lost their detector; force them closed.
	for _, name := range sortedKeys(active) {
		if processed[name] {
			continue
		}
		delete(active, name)
		e.emitter.Emit(Event{
			Kind:       EventEnd,
			Name:       name,
			Hand:       hand,
			Confidence: 0,
		})
	}
}

// endAll closes every active gesture on a hand, used on hand loss.
func (e *Evaluator) endAll(hand pose.Handedness, active map[string]*activeGesture) {
	for _, name := range sortedKeys(active) {
		delete(active, name)
		e.emitter.Emit(Event{
			Kind:       EventEnd,
			Name:       name,
			Hand:       hand,
			Confidence: 0,
		})
	}
}

// enabledNames returns the enabled gesture names in sorted order so
// event emission is deterministic within a tick.
func (e *Evaluator) enabledNames() []string {
	names := make([]string, 0, len(e.opts.Gestures))
	for name, gc := range e.opts.Gestures {
		if gc.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Active returns a snapshot of the gestures currently active for a
// hand with their latest confidences.
func (e *Evaluator) Active(hand pose.Handedness) map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]float64, len(e.active[hand]))
	for name, state := range e.active[hand] {
		out[name] = state.confidence
	}
	return out
}

func sortedKeys(m map[string]*activeGesture) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
