// Package server provides the HTTP server for the Mudra gesture
// recognition system.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server is the HTTP surface of the application: the REST API, the
// gesture event stream and the pose stream.
type Server struct {
	config Config
	router *mux.Router
	start  time.Time
	events *EventStreamHandler
}

// New creates a new Server with the given configuration and wires it
// into the running app.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: mux.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	if s.config.Store != nil {
		var onChange func()
		if s.config.App != nil {
			onChange = func() { s.config.App.LoadGestureConfigs() }
		}

		gestures := api.NewGestureConfigHandler(s.config.Store, onChange)
		s.router.HandleFunc("/api/config/gestures", gestures.List).Methods(http.MethodGet)
		s.router.HandleFunc("/api/config/gestures/{name}", gestures.Get).Methods(http.MethodGet)
		s.router.HandleFunc("/api/config/gestures/{name}", gestures.Update).Methods(http.MethodPut)
		s.router.HandleFunc("/api/config/gestures/{name}", gestures.Delete).Methods(http.MethodDelete)

		bindings := api.NewBindingHandler(s.config.Store)
		s.router.HandleFunc("/api/bindings", bindings.List).Methods(http.MethodGet)
		s.router.HandleFunc("/api/bindings", bindings.Create).Methods(http.MethodPost)
		s.router.HandleFunc("/api/bindings/{id}", bindings.Delete).Methods(http.MethodDelete)

		events := api.NewEventLogHandler(s.config.Store)
		s.router.HandleFunc("/api/events/recent", events.Recent).Methods(http.MethodGet)
	}

	if s.config.App != nil {
		plugins := api.NewPluginHandler(s.config.App.PluginManager())
		s.router.HandleFunc("/api/plugins", plugins.List).Methods(http.MethodGet)

		s.events = NewEventStreamHandler()
		s.config.App.Emitter().Subscribe(s.events.Publish)
		s.router.Handle("/api/events", s.events)

		s.router.Handle("/api/poses", NewPoseStreamHandler(s.config.App))
	}

	if s.config.StaticDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
