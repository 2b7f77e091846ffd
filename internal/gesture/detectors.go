package gesture

import "github.com/ayusman/mudra/internal/pose"

// All built-in detectors score with a linear ramp around the decision
// threshold rather than a hard cutoff, so confidence stays continuous
// near the boundary and consumers can treat it as a gradient signal.
// The ramp span is a detector-specific fraction of the threshold.

// rampUp rises from 0 to 1 as measured climbs from threshold to
// threshold+span.
func rampUp(measured, threshold, span float64) float64 {
	return clamp((measured-threshold)/span, 0, 1)
}

// rampDown rises from 0 to 1 as measured falls from threshold to
// threshold-span.
func rampDown(measured, threshold, span float64) float64 {
	return clamp((threshold-measured)/span, 0, 1)
}

// detectPinch scores thumb-to-index proximity. Confidence reaches 1.0
// at zero separation and fades out over 1.5x the threshold; frames
// beyond the threshold still score at half weight instead of being
// discarded outright.
func detectPinch(ctx *HandContext, threshold float64) (Detection, bool) {
	thumb, ok := ctx.JointAt(pose.ThumbTip)
	if !ok {
		return Detection{}, false
	}
	index, ok := ctx.JointAt(pose.IndexTip)
	if !ok {
		return Detection{}, false
	}

	d := distance3D(thumb, index)
	confidence := clamp(1-d/(threshold*1.5), 0, 1)
	if d > threshold {
		confidence *= 0.5
	}

	return Detection{
		Confidence: confidence,
		Data:       map[string]float64{"distance": d},
	}, true
}

// detectOpenPalm scores how far the fingertips sit from the wrist on
// average; an open hand pushes the mean well past the threshold.
func detectOpenPalm(ctx *HandContext, threshold float64) (Detection, bool) {
	mean, ok := ctx.fingertipsFromWrist(pose.FingerTips[:])
	if !ok {
		return Detection{}, false
	}

	return Detection{
		Confidence: rampUp(mean, threshold, threshold*0.5),
		Data:       map[string]float64{"meanDistance": mean},
	}, true
}

// detectFist is the inverse of detectOpenPalm: confidence rises as the
// mean fingertip-to-wrist distance falls below the threshold.
func detectFist(ctx *HandContext, threshold float64) (Detection, bool) {
	mean, ok := ctx.fingertipsFromWrist(pose.FingerTips[:])
	if !ok {
		return Detection{}, false
	}

	return Detection{
		Confidence: rampDown(mean, threshold, threshold*0.5),
		Data:       map[string]float64{"meanDistance": mean},
	}, true
}

// detectThumbsUp blends three signals: the thumb extended away from
// the wrist (50%), the remaining fingertips curled in (35%), and the
// thumb sitting above the wrist (15%).
func detectThumbsUp(ctx *HandContext, threshold float64) (Detection, bool) {
	wrist, ok := ctx.JointAt(pose.Wrist)
	if !ok {
		return Detection{}, false
	}
	thumb, ok := ctx.JointAt(pose.ThumbTip)
	if !ok {
		return Detection{}, false
	}

	others := []pose.Joint{pose.IndexTip, pose.MiddleTip, pose.RingTip, pose.PinkyTip}
	curl, ok := ctx.fingertipsFromWrist(others)
	if !ok {
		return Detection{}, false
	}

	thumbDist := distance3D(wrist, thumb)
	extended := rampUp(thumbDist, threshold, threshold*0.5)

	curlThreshold := threshold * 0.6
	curled := rampDown(curl, curlThreshold, curlThreshold*0.5)

	// Orientation: thumb tip above the wrist, saturating at 5cm.
	above := clamp((thumb.Y-wrist.Y)/0.05, 0, 1)

	return Detection{
		Confidence: 0.5*extended + 0.35*curled + 0.15*above,
		Data: map[string]float64{
			"thumbDistance": thumbDist,
			"meanCurl":      curl,
		},
	}, true
}

// detectPoint blends index extension (70%) with the curl of the
// middle, ring and pinky tips (30%). The thumb is required for a
// judgement but does not contribute to either measurement.
func detectPoint(ctx *HandContext, threshold float64) (Detection, bool) {
	wrist, ok := ctx.JointAt(pose.Wrist)
	if !ok {
		return Detection{}, false
	}
	index, ok := ctx.JointAt(pose.IndexTip)
	if !ok {
		return Detection{}, false
	}
	if _, ok := ctx.JointAt(pose.ThumbTip); !ok {
		return Detection{}, false
	}

	rest := []pose.Joint{pose.MiddleTip, pose.RingTip, pose.PinkyTip}
	curl, ok := ctx.fingertipsFromWrist(rest)
	if !ok {
		return Detection{}, false
	}

	indexDist := distance3D(wrist, index)
	extended := rampUp(indexDist, threshold, threshold*0.5)

	curlThreshold := threshold * 0.6
	curled := rampDown(curl, curlThreshold, curlThreshold*0.5)

	return Detection{
		Confidence: 0.7*extended + 0.3*curled,
		Data: map[string]float64{
			"indexDistance": indexDist,
			"meanCurl":      curl,
		},
	}, true
}

// detectSpread scores the mean spacing between adjacent fingertips
// (thumb-index, index-middle, middle-ring, ring-pinky).
func detectSpread(ctx *HandContext, threshold float64) (Detection, bool) {
	tips := pose.FingerTips
	points := make([]pose.Point3D, len(tips))
	for i, tip := range tips {
		pt, ok := ctx.JointAt(tip)
		if !ok {
			return Detection{}, false
		}
		points[i] = pt
	}

	var sum float64
	for i := 1; i < len(points); i++ {
		sum += distance3D(points[i-1], points[i])
	}
	mean := sum / float64(len(points)-1)

	return Detection{
		Confidence: rampUp(mean, threshold, threshold*0.75),
		Data:       map[string]float64{"meanSpacing": mean},
	}, true
}
