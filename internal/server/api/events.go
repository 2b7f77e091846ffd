package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/store"
)

// EventLogHandler serves the persisted gesture event log.
type EventLogHandler struct {
	store *store.Store
}

// NewEventLogHandler creates a handler over the given store.
func NewEventLogHandler(s *store.Store) *EventLogHandler {
	return &EventLogHandler{store: s}
}

type eventResponse struct {
	ID         string  `json:"id"`
	SessionID  string  `json:"session_id"`
	Kind       string  `json:"kind"`
	Gesture    string  `json:"gesture"`
	Hand       string  `json:"hand"`
	Confidence float64 `json:"confidence"`
	At         string  `json:"at"`
}

// Recent handles GET /api/events/recent?limit=N, newest first.
func (h *EventLogHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	events, err := h.store.Events().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{
			ID:         e.ID,
			SessionID:  e.SessionID,
			Kind:       e.Kind,
			Gesture:    e.Gesture,
			Hand:       e.Hand,
			Confidence: e.Confidence,
			At:         e.At.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": out})
}
