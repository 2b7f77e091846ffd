package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// BindingHandler serves the bindings that map gesture events to
// plugin actions.
type BindingHandler struct {
	store *store.Store
}

// NewBindingHandler creates a handler over the given store.
func NewBindingHandler(s *store.Store) *BindingHandler {
	return &BindingHandler{store: s}
}

type createBindingRequest struct {
	Gesture string          `json:"gesture"`
	Event   string          `json:"event"`
	Plugin  string          `json:"plugin"`
	Action  string          `json:"action"`
	Config  json.RawMessage `json:"config,omitempty"`
	Enabled *bool           `json:"enabled,omitempty"`
}

type bindingResponse struct {
	ID        string          `json:"id"`
	Gesture   string          `json:"gesture"`
	Event     string          `json:"event"`
	Plugin    string          `json:"plugin"`
	Action    string          `json:"action"`
	Config    json.RawMessage `json:"config"`
	Enabled   bool            `json:"enabled"`
	CreatedAt string          `json:"created_at"`
}

func toBindingResponse(b *store.Binding) bindingResponse {
	return bindingResponse{
		ID:        b.ID,
		Gesture:   b.Gesture,
		Event:     b.EventKind,
		Plugin:    b.PluginName,
		Action:    b.ActionName,
		Config:    json.RawMessage(b.Config),
		Enabled:   b.Enabled,
		CreatedAt: b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func validEventKind(kind string) bool {
	switch gesture.EventKind(kind) {
	case gesture.EventStart, gesture.EventUpdate, gesture.EventEnd:
		return true
	}
	return false
}

// List handles GET /api/bindings.
func (h *BindingHandler) List(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}

	out := make([]bindingResponse, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, toBindingResponse(b))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bindings": out})
}

// Create handles POST /api/bindings.
func (h *BindingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Gesture == "" || req.Plugin == "" || req.Action == "" {
		writeError(w, http.StatusBadRequest, "Gesture, plugin and action are required")
		return
	}
	eventKind := req.Event
	if eventKind == "" {
		eventKind = string(gesture.EventStart)
	}
	if !validEventKind(eventKind) {
		writeError(w, http.StatusBadRequest, "Invalid event kind")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	b := &store.Binding{
		Gesture:    req.Gesture,
		EventKind:  eventKind,
		PluginName: req.Plugin,
		ActionName: req.Action,
		Config:     string(req.Config),
		Enabled:    enabled,
	}
	if err := h.store.Bindings().Create(b); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create binding")
		return
	}

	writeJSON(w, http.StatusCreated, toBindingResponse(b))
}

// Delete handles DELETE /api/bindings/{id}.
func (h *BindingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.Bindings().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete binding")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
