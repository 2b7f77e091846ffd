// Package gesture implements the hand-gesture classification engine:
// heuristic detectors, the per-hand evaluation state machine, and the
// lifecycle event emitter.
package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/pose"
)

// HandContext is the per-tick view of one hand that detectors score.
// The evaluator owns one pooled context per hand and rebinds it each
// evaluation; detectors must not retain it across calls.
type HandContext struct {
	Hand   pose.Handedness
	Joints pose.Pose
}

// JointAt returns the named joint position and whether the tracker
// resolved it this frame.
func (c *HandContext) JointAt(j pose.Joint) (pose.Point3D, bool) {
	pt, ok := c.Joints[j]
	return pt, ok
}

// fingertipsFromWrist returns the mean Euclidean distance from the
// wrist to each of the given fingertip joints. ok is false when the
// wrist or any listed tip is missing.
func (c *HandContext) fingertipsFromWrist(tips []pose.Joint) (float64, bool) {
	wrist, ok := c.JointAt(pose.Wrist)
	if !ok || len(tips) == 0 {
		return 0, false
	}

	var sum float64
	for _, tip := range tips {
		pt, ok := c.JointAt(tip)
		if !ok {
			return 0, false
		}
		sum += distance3D(wrist, pt)
	}
	return sum / float64(len(tips)), true
}

// distance3D calculates the Euclidean distance between two 3D points.
func distance3D(a, b pose.Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// clamp limits v to the [lo, hi] range.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
