package gesture

import "sort"

// Detection is a successful detector evaluation: a confidence score
// and the raw measurements behind it. Confidence from a detector is
// not clamped; the evaluator clamps it into [0, 1] before use.
type Detection struct {
	Confidence float64
	Data       map[string]float64
}

// DetectorFunc scores a hand context against a distance threshold.
// Detectors are pure functions of joint positions. Returning ok=false
// means the detector cannot judge this frame because required joints
// are missing; that is distinct from a zero confidence, which means
// the gesture was judged absent.
type DetectorFunc func(ctx *HandContext, threshold float64) (Detection, bool)

// Built-in gesture names.
const (
	Pinch    = "pinch"
	OpenPalm = "open-palm"
	Fist     = "fist"
	ThumbsUp = "thumbs-up"
	Point    = "point"
	Spread   = "spread"
)

// Default distance thresholds in meters.
const (
	DefaultPinchThreshold    = 0.03
	DefaultFistThreshold     = 0.045
	DefaultOpenPalmThreshold = 0.075
	DefaultPointThreshold    = 0.07
	DefaultSpreadThreshold   = 0.05
	DefaultThumbsUpThreshold = 0.09
)

// Registry maps gesture names to detector functions and their default
// thresholds. A registry starts with the built-in detectors; new
// detectors can be added without touching the evaluator.
type Registry struct {
	detectors map[string]DetectorFunc
	defaults  map[string]float64
}

// NewRegistry creates a registry seeded with the built-in detectors.
func NewRegistry() *Registry {
	r := &Registry{
		detectors: make(map[string]DetectorFunc),
		defaults:  make(map[string]float64),
	}

	r.Register(Pinch, DefaultPinchThreshold, detectPinch)
	r.Register(OpenPalm, DefaultOpenPalmThreshold, detectOpenPalm)
	r.Register(Fist, DefaultFistThreshold, detectFist)
	r.Register(ThumbsUp, DefaultThumbsUpThreshold, detectThumbsUp)
	r.Register(Point, DefaultPointThreshold, detectPoint)
	r.Register(Spread, DefaultSpreadThreshold, detectSpread)

	return r
}

// Register adds or replaces a detector under the given gesture name.
func (r *Registry) Register(name string, defaultThreshold float64, fn DetectorFunc) {
	if name == "" || fn == nil {
		return
	}
	r.detectors[name] = fn
	r.defaults[name] = defaultThreshold
}

// Detector returns the detector registered under name.
func (r *Registry) Detector(name string) (DetectorFunc, bool) {
	fn, ok := r.detectors[name]
	return fn, ok
}

// DefaultThreshold returns the default threshold for a registered
// gesture, or 0 if the gesture is unknown.
func (r *Registry) DefaultThreshold(name string) float64 {
	return r.defaults[name]
}

// Names returns all registered gesture names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.detectors))
	for name := range r.detectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
