package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "mudra-test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestGestureConfigs_UpsertAndGet(t *testing.T) {
	s := newTestStore(t)

	threshold := 0.04
	cfg := &GestureConfig{Name: "pinch", Enabled: true, Threshold: &threshold}
	if err := s.GestureConfigs().Upsert(cfg); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err := s.GestureConfigs().Get("pinch")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !got.Enabled {
		t.Error("expected enabled config")
	}
	if got.Threshold == nil || *got.Threshold != 0.04 {
		t.Errorf("expected threshold 0.04, got %v", got.Threshold)
	}

	// Upsert over the same name replaces the row.
	cfg.Enabled = false
	cfg.Threshold = nil
	if err := s.GestureConfigs().Upsert(cfg); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	got, err = s.GestureConfigs().Get("pinch")
	if err != nil {
		t.Fatalf("get after upsert failed: %v", err)
	}
	if got.Enabled {
		t.Error("expected disabled config after upsert")
	}
	if got.Threshold != nil {
		t.Errorf("expected nil threshold after upsert, got %v", *got.Threshold)
	}
}

func TestGestureConfigs_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GestureConfigs().Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGestureConfigs_ListAndDelete(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"spread", "fist", "pinch"} {
		if err := s.GestureConfigs().Upsert(&GestureConfig{Name: name, Enabled: true}); err != nil {
			t.Fatalf("upsert %s failed: %v", name, err)
		}
	}

	configs, err := s.GestureConfigs().List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(configs) != 3 {
		t.Fatalf("expected 3 configs, got %d", len(configs))
	}
	// Ordered by name.
	if configs[0].Name != "fist" || configs[2].Name != "spread" {
		t.Errorf("expected name ordering, got %s..%s", configs[0].Name, configs[2].Name)
	}

	if err := s.GestureConfigs().Delete("fist"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := s.GestureConfigs().Delete("fist"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestBindings_CreateAndListForEvent(t *testing.T) {
	s := newTestStore(t)

	b := &Binding{
		ID:         uuid.New().String(),
		Gesture:    "pinch",
		EventKind:  "gesturestart",
		PluginName: "notify",
		ActionName: "show",
		Enabled:    true,
	}
	if err := s.Bindings().Create(b); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	disabled := &Binding{
		ID:         uuid.New().String(),
		Gesture:    "pinch",
		EventKind:  "gesturestart",
		PluginName: "notify",
		ActionName: "hidden",
		Enabled:    false,
	}
	if err := s.Bindings().Create(disabled); err != nil {
		t.Fatalf("create disabled failed: %v", err)
	}

	matches, err := s.Bindings().ListForEvent("pinch", "gesturestart")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 enabled binding, got %d", len(matches))
	}
	if matches[0].ActionName != "show" {
		t.Errorf("expected action 'show', got %q", matches[0].ActionName)
	}
	if matches[0].Config != "{}" {
		t.Errorf("expected default config '{}', got %q", matches[0].Config)
	}

	// Different event kind matches nothing.
	matches, err = s.Bindings().ListForEvent("pinch", "gestureend")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no bindings for gestureend, got %d", len(matches))
	}
}

func TestBindings_Delete(t *testing.T) {
	s := newTestStore(t)

	b := &Binding{ID: uuid.New().String(), Gesture: "fist", EventKind: "gesturestart", PluginName: "p", ActionName: "a", Enabled: true}
	if err := s.Bindings().Create(b); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := s.Bindings().Delete(b.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := s.Bindings().Delete(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEvents_InsertAndRecent(t *testing.T) {
	s := newTestStore(t)

	session := uuid.New().String()
	base := time.Now().Add(-time.Minute)

	for i, kind := range []string{"gesturestart", "gestureupdate", "gestureend"} {
		e := &Event{
			ID:         uuid.New().String(),
			SessionID:  session,
			Kind:       kind,
			Gesture:    "pinch",
			Hand:       "right",
			Confidence: 0.7,
			At:         base.Add(time.Duration(i) * time.Second),
		}
		if err := s.Events().Insert(e); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	events, err := s.Events().Recent(2)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Newest first.
	if events[0].Kind != "gestureend" {
		t.Errorf("expected newest event first, got %q", events[0].Kind)
	}

	purged, err := s.Events().PurgeBefore(base.Add(1500 * time.Millisecond))
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if purged != 2 {
		t.Errorf("expected 2 purged events, got %d", purged)
	}
}

func TestSettings_SetGetReplace(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Settings().Get("recognition_enabled"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unset key, got %v", err)
	}

	if err := s.Settings().Set("recognition_enabled", "false"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	v, err := s.Settings().Get("recognition_enabled")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if v != "false" {
		t.Errorf("expected value false, got %q", v)
	}

	// Setting again replaces the value.
	if err := s.Settings().Set("recognition_enabled", "true"); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	v, err = s.Settings().Get("recognition_enabled")
	if err != nil {
		t.Fatalf("get after replace failed: %v", err)
	}
	if v != "true" {
		t.Errorf("expected value true, got %q", v)
	}
}
