package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/pose"
)

var replayCmd = &cobra.Command{
	Use:   "replay <session.jsonl>",
	Short: "Re-run gesture evaluation over a recorded session",
	Long: `Replay reads a session recorded with record_path and runs the gesture
evaluator over it tick by tick, printing every lifecycle event. Useful
for tuning thresholds against a captured interaction without a camera.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return replaySession(args[0])
	},
}

func replaySession(path string) error {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return err
	}

	frames, err := pose.ReadSession(path)
	if err != nil {
		return err
	}

	registry := gesture.NewRegistry()
	emitter := gesture.NewEmitter()
	evaluator := gesture.NewEvaluator(cfg.Options(), registry, emitter)

	var current int64
	emitter.Subscribe(func(ev gesture.Event) {
		fmt.Printf("%8dms  %-13s %-10s %-5s %.3f\n",
			current, ev.Kind, ev.Name, ev.Hand, ev.Confidence)
	})

	// Synthetic clock anchored at the recording timestamps, so the
	// configured update interval throttles exactly as it did live.
	base := time.Unix(0, 0)
	for _, frame := range frames {
		current = frame.TimestampMs
		now := base.Add(time.Duration(frame.TimestampMs) * time.Millisecond)

		poses := make(map[pose.Handedness]pose.Pose, len(pose.Hands))
		for i := range frame.Hands {
			poses[frame.Hands[i].Handedness] = frame.Hands[i].Joints
		}
		for _, hand := range pose.Hands {
			evaluator.Evaluate(hand, poses[hand], now)
		}
	}

	fmt.Printf("Replayed %d frames\n", len(frames))
	return nil
}
