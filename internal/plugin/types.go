// Package plugin provides discovery and execution of action plugins
// triggered by gesture lifecycle events.
package plugin

import "encoding/json"

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request is sent to a plugin on stdin for each triggered action. It
// carries the full gesture event so plugins can react to confidence
// or handedness without extra round trips.
type Request struct {
	Action     string          `json:"action"`
	Gesture    string          `json:"gesture"`
	Hand       string          `json:"hand"`
	Event      string          `json:"event"`
	Confidence float64         `json:"confidence"`
	Config     json.RawMessage `json:"config"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
