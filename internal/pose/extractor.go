package pose

import "gocv.io/x/gocv"

// Extractor produces hand poses from video frames.
type Extractor interface {
	// Extract analyzes a video frame and returns the hands found in it.
	// Returns an empty slice if no hands are tracked.
	Extract(frame *gocv.Mat) ([]Hand, error)

	// Close releases any resources held by the extractor.
	Close() error
}

// Config holds configuration options for pose extraction.
type Config struct {
	// MaxHands is the maximum number of hands to track (default: 2).
	MaxHands int

	// MinScore is the minimum tracker detection score (0.0-1.0) for a
	// hand to be reported at all.
	MinScore float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands: 2,
		MinScore: 0.5,
	}
}
