// Package app wires the capture pipeline, pose extraction, gesture
// evaluation, persistence and plugin dispatch into one running system.
package app

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/pose"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active tracking.
	ActiveFPS = 15
	// IdleTimeoutMs is how long without motion before switching back
	// to idle mode.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	Store         *store.Store
	PluginDir     string
	PluginTimeout time.Duration
	CameraID      int
	MotionThresh  float64
	// RecordPath, when set, records every processed tick to a JSONL
	// session file.
	RecordPath string
}

// App orchestrates frame capture, hand tracking and gesture
// evaluation, and routes the resulting events to the store, the
// plugin system and any registered listener.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	extractor  pose.Extractor
	registry   *gesture.Registry
	emitter    *gesture.Emitter
	evaluator  *gesture.Evaluator
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	sessionID  string

	mu          sync.RWMutex
	opts        gesture.Options
	enabled     bool
	stopCh      chan struct{}
	listener    func(gesture.Event)
	lastHands   []pose.Hand
	recorder    *pose.Recorder
	recordStart time.Time
}

// New creates a new App instance with the given configuration and
// evaluator options.
func New(config Config, opts gesture.Options) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}
	timeout := config.PluginTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	registry := gesture.NewRegistry()
	emitter := gesture.NewEmitter()

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionDetector(motionThreshold),
		registry:   registry,
		emitter:    emitter,
		evaluator:  gesture.NewEvaluator(opts, registry, emitter),
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(timeout),
		sessionID:  uuid.New().String(),
		opts:       opts,
		enabled:    false,
	}

	// Try MediaPipe first, fall back to the mock extractor.
	if mp, err := pose.NewMediaPipeExtractor(pose.DefaultConfig()); err == nil {
		a.extractor = mp
		log.Println("Using MediaPipe hand tracking")
	} else {
		log.Printf("MediaPipe not available (%v), using mock extractor", err)
		a.extractor = pose.NewMockExtractor()
	}

	a.emitter.Subscribe(a.logEvent)
	a.emitter.Subscribe(a.dispatchBindings)
	a.emitter.Subscribe(a.notifyListener)

	return a
}

// SetEnabled enables or disables the recognition pipeline.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether the recognition pipeline is running.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetExtractor sets the pose extractor implementation to use.
func (a *App) SetExtractor(e pose.Extractor) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.extractor = e
}

// SetGestureListener registers a callback invoked for every gesture
// event, replacing any previous listener. Used by the tray to show
// the most recent gesture.
func (a *App) SetGestureListener(fn func(gesture.Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener = fn
}

// ApplyOptions replaces the evaluator options, typically after a
// config reload or an API change.
func (a *App) ApplyOptions(opts gesture.Options) {
	a.mu.Lock()
	a.opts = opts
	a.mu.Unlock()
	a.evaluator.SetOptions(opts)
}

// Options returns a copy of the current evaluator options with the
// gesture map cloned, safe for the caller to mutate.
func (a *App) Options() gesture.Options {
	a.mu.RLock()
	defer a.mu.RUnlock()

	opts := a.opts
	opts.Gestures = make(map[string]gesture.GestureConfig, len(a.opts.Gestures))
	for name, gc := range a.opts.Gestures {
		opts.Gestures[name] = gc
	}
	return opts
}

// LoadGestureConfigs overlays the per-gesture settings stored in the
// database onto the current options. File config provides the base;
// rows written through the API win.
func (a *App) LoadGestureConfigs() error {
	if a.config.Store == nil {
		return nil
	}

	configs, err := a.config.Store.GestureConfigs().List()
	if err != nil {
		return err
	}
	if len(configs) == 0 {
		return nil
	}

	opts := a.Options()
	for _, c := range configs {
		entry := opts.Gestures[c.Name]
		entry.Enabled = c.Enabled
		if c.Threshold != nil {
			entry.Threshold = *c.Threshold
		}
		opts.Gestures[c.Name] = entry
	}
	a.ApplyOptions(opts)

	log.Printf("Loaded %d gesture configs from database", len(configs))
	return nil
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start opens the camera and begins the recognition pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	if a.config.RecordPath != "" {
		rec, err := pose.NewRecorder(a.config.RecordPath)
		if err != nil {
			log.Printf("Session recording disabled: %v", err)
		} else {
			a.recorder = rec
			a.recordStart = time.Now()
			log.Printf("Recording session to %s", a.config.RecordPath)
		}
	}

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Recognition pipeline started")
	return nil
}

// Stop halts the recognition pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.extractor != nil {
		if err := a.extractor.Close(); err != nil {
			log.Printf("Error closing extractor: %v", err)
		}
	}

	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			log.Printf("Error closing session recording: %v", err)
		}
		a.recorder = nil
	}

	log.Println("Recognition pipeline stopped")
}

// logEvent persists a gesture event to the session log.
func (a *App) logEvent(ev gesture.Event) {
	if a.config.Store == nil {
		return
	}

	err := a.config.Store.Events().Insert(&store.Event{
		ID:         uuid.New().String(),
		SessionID:  a.sessionID,
		Kind:       string(ev.Kind),
		Gesture:    ev.Name,
		Hand:       string(ev.Hand),
		Confidence: ev.Confidence,
		At:         time.Now(),
	})
	if err != nil {
		log.Printf("Failed to log gesture event: %v", err)
	}
}

// dispatchBindings executes every enabled plugin binding matching the
// event. Plugins run on their own goroutines so a slow action cannot
// stall the pipeline.
func (a *App) dispatchBindings(ev gesture.Event) {
	if a.config.Store == nil {
		return
	}

	bindings, err := a.config.Store.Bindings().ListForEvent(ev.Name, string(ev.Kind))
	if err != nil {
		log.Printf("Failed to look up bindings for %s: %v", ev.Name, err)
		return
	}

	for _, b := range bindings {
		p, err := a.pluginMgr.Get(b.PluginName)
		if err != nil {
			log.Printf("Binding %s references unavailable plugin %s: %v", b.ID, b.PluginName, err)
			continue
		}

		req := &plugin.Request{
			Action:     b.ActionName,
			Gesture:    ev.Name,
			Hand:       string(ev.Hand),
			Event:      string(ev.Kind),
			Confidence: ev.Confidence,
			Config:     json.RawMessage(b.Config),
		}

		go func(p *plugin.Plugin, req *plugin.Request, bindingID string) {
			resp, err := a.pluginExec.Execute(p, req)
			if err != nil {
				log.Printf("Plugin action failed for binding %s: %v", bindingID, err)
				return
			}
			if !resp.Success {
				log.Printf("Plugin action rejected for binding %s: %s", bindingID, resp.Error)
			}
		}(p, req, b.ID)
	}
}

// notifyListener forwards the event to the registered listener, if any.
func (a *App) notifyListener(ev gesture.Event) {
	a.mu.RLock()
	fn := a.listener
	a.mu.RUnlock()

	if fn != nil {
		fn(ev)
	}
}

// SessionID returns the identifier under which this run logs events.
func (a *App) SessionID() string {
	return a.sessionID
}

// LatestHands returns the hands tracked on the most recent tick.
func (a *App) LatestHands() []pose.Hand {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]pose.Hand, len(a.lastHands))
	copy(out, a.lastHands)
	return out
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Emitter returns the gesture event emitter.
func (a *App) Emitter() *gesture.Emitter {
	return a.emitter
}

// Evaluator returns the gesture evaluator.
func (a *App) Evaluator() *gesture.Evaluator {
	return a.evaluator
}

// Registry returns the gesture detector registry.
func (a *App) Registry() *gesture.Registry {
	return a.registry
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Extractor returns the pose extractor.
func (a *App) Extractor() pose.Extractor {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.extractor
}
