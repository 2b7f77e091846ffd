package pose

import (
	"gocv.io/x/gocv"
)

// MockExtractor is a test implementation of the Extractor interface.
// It allows tests (and the no-camera fallback path) to control the
// extraction results.
type MockExtractor struct {
	hands []Hand
	err   error
}

// NewMockExtractor creates a new MockExtractor instance.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// SetHands sets the hands that will be returned by Extract.
func (m *MockExtractor) SetHands(hands []Hand) {
	m.hands = hands
}

// SetError sets the error that will be returned by Extract.
func (m *MockExtractor) SetError(err error) {
	m.err = err
}

// Extract returns the pre-configured hands or error.
func (m *MockExtractor) Extract(frame *gocv.Mat) ([]Hand, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock extractor.
func (m *MockExtractor) Close() error {
	return nil
}

// Preset poses for tests and demos. All positions are in meters with
// the wrist at the origin and +Y pointing up.

// PinchPose returns a pose with thumb and index tips 5mm apart and the
// remaining fingers extended.
func PinchPose() Pose {
	return Pose{
		Wrist:     {X: 0, Y: 0, Z: 0},
		ThumbTip:  {X: 0.000, Y: 0.05, Z: 0},
		IndexTip:  {X: 0.005, Y: 0.05, Z: 0},
		MiddleTip: {X: 0.000, Y: 0.095, Z: 0.01},
		RingTip:   {X: 0.020, Y: 0.09, Z: 0.01},
		PinkyTip:  {X: 0.040, Y: 0.08, Z: 0.01},
	}
}

// OpenPalmPose returns a pose with all fingertips roughly 10cm from
// the wrist.
func OpenPalmPose() Pose {
	return Pose{
		Wrist:     {X: 0, Y: 0, Z: 0},
		ThumbTip:  {X: -0.07, Y: 0.07, Z: 0},
		IndexTip:  {X: -0.03, Y: 0.10, Z: 0},
		MiddleTip: {X: 0.00, Y: 0.11, Z: 0},
		RingTip:   {X: 0.03, Y: 0.10, Z: 0},
		PinkyTip:  {X: 0.06, Y: 0.08, Z: 0},
	}
}

// FistPose returns a pose with all fingertips curled close to the
// wrist.
func FistPose() Pose {
	return Pose{
		Wrist:     {X: 0, Y: 0, Z: 0},
		ThumbTip:  {X: 0.020, Y: 0.020, Z: 0},
		IndexTip:  {X: -0.010, Y: 0.030, Z: 0},
		MiddleTip: {X: 0.000, Y: 0.032, Z: 0},
		RingTip:   {X: 0.010, Y: 0.030, Z: 0},
		PinkyTip:  {X: 0.020, Y: 0.025, Z: 0},
	}
}

// PointPose returns a pose with the index finger extended and the
// remaining fingers curled.
func PointPose() Pose {
	return Pose{
		Wrist:     {X: 0, Y: 0, Z: 0},
		ThumbTip:  {X: 0.030, Y: 0.030, Z: 0},
		IndexTip:  {X: 0.000, Y: 0.100, Z: 0},
		MiddleTip: {X: 0.005, Y: 0.030, Z: 0},
		RingTip:   {X: 0.015, Y: 0.028, Z: 0},
		PinkyTip:  {X: 0.025, Y: 0.025, Z: 0},
	}
}

// ThumbsUpPose returns a pose with the thumb extended well above the
// wrist and the other fingers curled.
func ThumbsUpPose() Pose {
	return Pose{
		Wrist:     {X: 0, Y: 0, Z: 0},
		ThumbTip:  {X: 0.000, Y: 0.140, Z: 0},
		IndexTip:  {X: -0.010, Y: 0.030, Z: 0},
		MiddleTip: {X: 0.000, Y: 0.032, Z: 0},
		RingTip:   {X: 0.010, Y: 0.030, Z: 0},
		PinkyTip:  {X: 0.020, Y: 0.025, Z: 0},
	}
}

// SpreadPose returns a pose with adjacent fingertips spaced 7cm
// apart.
func SpreadPose() Pose {
	return Pose{
		Wrist:     {X: 0, Y: 0, Z: 0},
		ThumbTip:  {X: -0.14, Y: 0.08, Z: 0},
		IndexTip:  {X: -0.07, Y: 0.08, Z: 0},
		MiddleTip: {X: 0.00, Y: 0.08, Z: 0},
		RingTip:   {X: 0.07, Y: 0.08, Z: 0},
		PinkyTip:  {X: 0.14, Y: 0.08, Z: 0},
	}
}
