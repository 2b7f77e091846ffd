package plugin

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeScript creates an executable plugin script and returns the
// plugin pointing at it.
func writeScript(t *testing.T, script string) *Plugin {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell script plugins are not supported on windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "run.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest:   Manifest{Name: "test", Executable: "run.sh"},
		Path:       dir,
		Executable: path,
	}
}

func TestExecutor_Execute(t *testing.T) {
	p := writeScript(t, `cat > /dev/null
echo '{"success": true, "data": {"done": 1}}'`)

	exec := NewExecutor(5 * time.Second)
	req := &Request{
		Action:     "show",
		Gesture:    "pinch",
		Hand:       "right",
		Event:      "gesturestart",
		Confidence: 0.8,
	}

	resp, err := exec.Execute(p, req)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !resp.Success {
		t.Error("expected success response")
	}
}

func TestExecutor_ReceivesEventPayload(t *testing.T) {
	// The script echoes stdin back inside the response data so the
	// test can verify the request fields arrived.
	p := writeScript(t, `input=$(cat)
printf '{"success": true, "data": %s}' "$input"`)

	exec := NewExecutor(5 * time.Second)
	resp, err := exec.Execute(p, &Request{
		Action:     "show",
		Gesture:    "thumbs-up",
		Hand:       "left",
		Event:      "gesturestart",
		Confidence: 0.92,
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	data := string(resp.Data)
	for _, want := range []string{`"gesture":"thumbs-up"`, `"hand":"left"`, `"event":"gesturestart"`} {
		if !strings.Contains(data, want) {
			t.Errorf("expected request payload to contain %s, got %s", want, data)
		}
	}
}

func TestExecutor_FailureWithStderr(t *testing.T) {
	p := writeScript(t, `echo "something broke" >&2
exit 1`)

	exec := NewExecutor(5 * time.Second)
	_, err := exec.Execute(p, &Request{Action: "show"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "something broke") {
		t.Errorf("expected stderr in error, got %v", err)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	p := writeScript(t, `sleep 5`)

	exec := NewExecutor(100 * time.Millisecond)
	_, err := exec.Execute(p, &Request{Action: "show"})
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestExecutor_InvalidResponse(t *testing.T) {
	p := writeScript(t, `cat > /dev/null
echo 'not json'`)

	exec := NewExecutor(5 * time.Second)
	_, err := exec.Execute(p, &Request{Action: "show"})
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !strings.Contains(err.Error(), "parse plugin response") {
		t.Errorf("expected parse error, got %v", err)
	}
}
