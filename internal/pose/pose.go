// Package pose defines the hand pose model and the sources that produce it.
package pose

// Handedness identifies which hand a pose belongs to.
type Handedness string

const (
	// Left is the left hand.
	Left Handedness = "left"
	// Right is the right hand.
	Right Handedness = "right"
)

// Hands lists both handedness values in a stable order.
var Hands = [2]Handedness{Left, Right}

// Joint names a tracked skeletal landmark on a hand.
// The naming follows the MediaPipe hand landmark convention with one
// joint per landmark; positions are in meters in the tracking space.
type Joint string

// The 21 hand joints.
const (
	Wrist Joint = "wrist"

	ThumbCMC Joint = "thumb-cmc"
	ThumbMCP Joint = "thumb-mcp"
	ThumbIP  Joint = "thumb-ip"
	ThumbTip Joint = "thumb-tip"

	IndexMCP Joint = "index-finger-mcp"
	IndexPIP Joint = "index-finger-pip"
	IndexDIP Joint = "index-finger-dip"
	IndexTip Joint = "index-finger-tip"

	MiddleMCP Joint = "middle-finger-mcp"
	MiddlePIP Joint = "middle-finger-pip"
	MiddleDIP Joint = "middle-finger-dip"
	MiddleTip Joint = "middle-finger-tip"

	RingMCP Joint = "ring-finger-mcp"
	RingPIP Joint = "ring-finger-pip"
	RingDIP Joint = "ring-finger-dip"
	RingTip Joint = "ring-finger-tip"

	PinkyMCP Joint = "pinky-finger-mcp"
	PinkyPIP Joint = "pinky-finger-pip"
	PinkyDIP Joint = "pinky-finger-dip"
	PinkyTip Joint = "pinky-finger-tip"
)

// NumJoints is the number of joints in a fully tracked hand.
const NumJoints = 21

// FingerTips lists the five fingertip joints from thumb to pinky.
var FingerTips = [5]Joint{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// JointOrder maps landmark indices to joint names, in the order the
// tracking model reports them.
var JointOrder = [NumJoints]Joint{
	Wrist,
	ThumbCMC, ThumbMCP, ThumbIP, ThumbTip,
	IndexMCP, IndexPIP, IndexDIP, IndexTip,
	MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip,
	RingMCP, RingPIP, RingDIP, RingTip,
	PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip,
}

// Point3D represents a 3D point in space with x, y, z coordinates.
// The Y axis points up in the tracking space.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pose maps joint names to positions for a single tracked hand.
// Joints the tracker could not resolve this frame are simply absent.
type Pose map[Joint]Point3D

// Clone returns an independent copy of the pose.
func (p Pose) Clone() Pose {
	if p == nil {
		return nil
	}
	out := make(Pose, len(p))
	for j, pt := range p {
		out[j] = pt
	}
	return out
}

// Hand is one tracked hand in a frame: its identity, its joint
// positions, and the tracker's own detection score.
type Hand struct {
	Handedness Handedness `json:"handedness"`
	Joints     Pose       `json:"joints"`
	Score      float64    `json:"score"`
}
