package pose

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Frame is one recorded tick of hand tracking: a timestamp relative to
// the start of the session and the hands tracked at that instant.
type Frame struct {
	TimestampMs int64  `json:"t_ms"`
	Hands       []Hand `json:"hands"`
}

// Recorder writes session frames as JSON lines, one frame per line.
type Recorder struct {
	w io.WriteCloser
}

// NewRecorder creates a recorder writing to the given file, truncating
// any existing content.
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create session file: %w", err)
	}
	return &Recorder{w: f}, nil
}

// Record appends one frame to the session.
func (r *Recorder) Record(frame Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	data = append(data, '\n')
	if _, err := r.w.Write(data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Close flushes and closes the session file.
func (r *Recorder) Close() error {
	return r.w.Close()
}

// ReadSession loads all frames of a recorded session.
func ReadSession(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session file: %w", err)
	}
	defer f.Close()

	var frames []Frame
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			return nil, fmt.Errorf("parse frame at line %d: %w", line, err)
		}
		frames = append(frames, frame)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	return frames, nil
}
