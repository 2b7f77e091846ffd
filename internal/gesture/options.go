package gesture

import "time"

// Provider selects the source of hand-pose heuristics. Only the
// built-in heuristic provider is implemented; "webxr" marks a
// zero-latency source whose ticks are never throttled.
type Provider string

const (
	// ProviderHeuristic is the built-in heuristic provider.
	ProviderHeuristic Provider = "heuristic"
	// ProviderWebXR marks a zero-latency pose source; evaluation runs
	// every tick regardless of the configured update interval.
	ProviderWebXR Provider = "webxr"
)

// DefaultMinimumConfidence is used when Options leaves
// MinimumConfidence unset.
const DefaultMinimumConfidence = 0.5

// GestureConfig enables a single gesture and optionally overrides its
// detection threshold.
type GestureConfig struct {
	Enabled bool
	// Threshold overrides the detector's default distance threshold
	// when greater than zero.
	Threshold float64
}

// Options configure an Evaluator. The struct is copied on use and
// treated as immutable during a tick.
type Options struct {
	// Enabled turns the whole engine on or off. When false, every
	// evaluation is a complete no-op.
	Enabled bool

	// Provider selects the pose heuristics source. Unrecognized
	// values fall back to the built-in heuristic provider with a
	// one-time warning.
	Provider Provider

	// UpdateInterval is the minimum time between evaluations of the
	// same hand; ticks arriving sooner are skipped outright. Zero
	// evaluates every tick. Ignored for ProviderWebXR.
	UpdateInterval time.Duration

	// MinimumConfidence is the global activation threshold (0..1).
	// Zero selects DefaultMinimumConfidence.
	MinimumConfidence float64

	// Gestures configures the per-gesture enable flags and threshold
	// overrides, keyed by gesture name.
	Gestures map[string]GestureConfig
}

// DefaultOptions enables the engine with every built-in gesture on
// and all defaults in place.
func DefaultOptions() Options {
	gestures := make(map[string]GestureConfig)
	for _, name := range NewRegistry().Names() {
		gestures[name] = GestureConfig{Enabled: true}
	}

	return Options{
		Enabled:  true,
		Provider: ProviderHeuristic,
		Gestures: gestures,
	}
}
