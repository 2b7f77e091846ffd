package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/pose"
)

// runPipeline is the main recognition loop that processes frames from
// the camera. It manages the state transitions between idle and
// active modes based on motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS)
// 2. On motion detected, switch to active mode (ActiveFPS)
// 3. Extract hand poses and evaluate gestures per hand
// 4. After 2s without motion, switch back to idle mode and close any
//    active gestures
func (a *App) runPipeline() {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					ticker.Reset(time.Second / time.Duration(ActiveFPS))
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					ticker.Reset(time.Second / time.Duration(IdleFPS))
					// Close anything still active before going quiet.
					a.EvaluateHands(nil, time.Now())
					log.Println("Switched to idle mode")
				}
			}

			extractor := a.Extractor()
			if !activeMode || extractor == nil {
				frame.Close()
				continue
			}

			hands, err := extractor.Extract(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error extracting hands: %v", err)
				continue
			}

			a.EvaluateHands(hands, time.Now())
		}
	}
}

// EvaluateHands runs one evaluation tick over the extracted hands.
// Both hands are always evaluated; a hand absent from the slice gets a
// nil pose, which closes its active gestures. Exported so the replay
// command and tests can drive the evaluator without a camera.
func (a *App) EvaluateHands(hands []pose.Hand, now time.Time) {
	poses := make(map[pose.Handedness]pose.Pose, len(pose.Hands))
	for i := range hands {
		poses[hands[i].Handedness] = hands[i].Joints
	}

	for _, hand := range pose.Hands {
		a.evaluator.Evaluate(hand, poses[hand], now)
	}

	a.mu.Lock()
	a.lastHands = hands
	rec := a.recorder
	start := a.recordStart
	a.mu.Unlock()

	if rec != nil {
		err := rec.Record(pose.Frame{
			TimestampMs: now.Sub(start).Milliseconds(),
			Hands:       hands,
		})
		if err != nil {
			log.Printf("Failed to record frame: %v", err)
		}
	}
}
