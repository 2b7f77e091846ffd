package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestApp(t *testing.T, s *store.Store) *app.App {
	t.Helper()
	return app.New(app.Config{Store: s, PluginDir: t.TempDir()}, gesture.DefaultOptions())
}

func TestServer_Health(t *testing.T) {
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %v, want ok", resp["status"])
	}
}

func TestServer_RecentEvents(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Events().Insert(&store.Event{
			ID:        id,
			SessionID: "session",
			Kind:      "gesturestart",
			Gesture:   "pinch",
			Hand:      "right",
			At:        time.Now(),
		}); err != nil {
			t.Fatal(err)
		}
	}

	srv := New(Config{Store: s})

	req := httptest.NewRequest(http.MethodGet, "/api/events/recent?limit=2", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Events []map[string]interface{} `json:"events"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Events) != 2 {
		t.Errorf("expected 2 events, got %d", len(resp.Events))
	}
}

func TestServer_GestureConfigUpdate_AppliesToApp(t *testing.T) {
	s := newTestStore(t)
	a := newTestApp(t, s)
	srv := New(Config{Store: s, App: a})

	body := strings.NewReader(`{"enabled": false}`)
	req := httptest.NewRequest(http.MethodPut, "/api/config/gestures/pinch", body)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body = %s", w.Code, w.Body.String())
	}

	opts := a.Options()
	if opts.Gestures[gesture.Pinch].Enabled {
		t.Error("expected pinch disabled in running options after API update")
	}
}

func TestServer_EventStream(t *testing.T) {
	s := newTestStore(t)
	a := newTestApp(t, s)
	srv := httptest.NewServer(New(Config{Store: s, App: a}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Registration races the dial; keep emitting until a message
	// arrives.
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				a.Emitter().Emit(gesture.Event{
					Kind:       gesture.EventStart,
					Name:       gesture.Pinch,
					Hand:       "right",
					Confidence: 0.8,
				})
				time.Sleep(20 * time.Millisecond)
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var ev gesture.Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if ev.Kind != gesture.EventStart || ev.Name != gesture.Pinch {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
