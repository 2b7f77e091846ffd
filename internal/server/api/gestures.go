package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayusman/mudra/internal/store"
)

// GestureConfigHandler serves the per-gesture configuration stored in
// the database. Changes are pushed back into the running evaluator via
// the onChange callback.
type GestureConfigHandler struct {
	store    *store.Store
	onChange func()
}

// NewGestureConfigHandler creates a handler over the given store.
// onChange is invoked after every successful write and may be nil.
func NewGestureConfigHandler(s *store.Store, onChange func()) *GestureConfigHandler {
	return &GestureConfigHandler{store: s, onChange: onChange}
}

type gestureConfigRequest struct {
	Enabled   bool     `json:"enabled"`
	Threshold *float64 `json:"threshold,omitempty"`
}

type gestureConfigResponse struct {
	Name      string   `json:"name"`
	Enabled   bool     `json:"enabled"`
	Threshold *float64 `json:"threshold,omitempty"`
	UpdatedAt string   `json:"updated_at"`
}

func toGestureConfigResponse(c *store.GestureConfig) gestureConfigResponse {
	return gestureConfigResponse{
		Name:      c.Name,
		Enabled:   c.Enabled,
		Threshold: c.Threshold,
		UpdatedAt: c.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// List handles GET /api/config/gestures.
func (h *GestureConfigHandler) List(w http.ResponseWriter, r *http.Request) {
	configs, err := h.store.GestureConfigs().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list gesture configs")
		return
	}

	out := make([]gestureConfigResponse, 0, len(configs))
	for _, c := range configs {
		out = append(out, toGestureConfigResponse(c))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"gestures": out})
}

// Get handles GET /api/config/gestures/{name}.
func (h *GestureConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	c, err := h.store.GestureConfigs().Get(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture config not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get gesture config")
		return
	}

	writeJSON(w, http.StatusOK, toGestureConfigResponse(c))
}

// Update handles PUT /api/config/gestures/{name}, creating or
// replacing the stored configuration for one gesture.
func (h *GestureConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req gestureConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Threshold != nil && *req.Threshold <= 0 {
		writeError(w, http.StatusBadRequest, "Threshold must be positive")
		return
	}

	c := &store.GestureConfig{
		Name:      name,
		Enabled:   req.Enabled,
		Threshold: req.Threshold,
	}
	if err := h.store.GestureConfigs().Upsert(c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save gesture config")
		return
	}

	if h.onChange != nil {
		h.onChange()
	}

	writeJSON(w, http.StatusOK, toGestureConfigResponse(c))
}

// Delete handles DELETE /api/config/gestures/{name}, reverting the
// gesture to its file or built-in configuration.
func (h *GestureConfigHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.store.GestureConfigs().Delete(name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture config not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete gesture config")
		return
	}

	if h.onChange != nil {
		h.onChange()
	}

	w.WriteHeader(http.StatusNoContent)
}
