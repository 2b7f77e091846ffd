package api

import (
	"net/http"
	"sort"

	"github.com/ayusman/mudra/internal/plugin"
)

// PluginHandler lists the discovered action plugins.
type PluginHandler struct {
	manager *plugin.Manager
}

// NewPluginHandler creates a handler over the given plugin manager.
func NewPluginHandler(m *plugin.Manager) *PluginHandler {
	return &PluginHandler{manager: m}
}

type pluginResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

// List handles GET /api/plugins.
func (h *PluginHandler) List(w http.ResponseWriter, r *http.Request) {
	plugins := h.manager.List()

	out := make([]pluginResponse, 0, len(plugins))
	for _, p := range plugins {
		out = append(out, pluginResponse{
			Name:        p.Manifest.Name,
			Version:     p.Manifest.Version,
			Description: p.Manifest.Description,
			Actions:     p.Manifest.Actions,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	writeJSON(w, http.StatusOK, map[string]interface{}{"plugins": out})
}
