// Package server exposes the orchestrator over HTTP: agent management,
// direct agent communication, the orchestration endpoint, tool listing and a
// websocket event feed. The boundary also converts the synthesized Markdown
// answer to HTML; everything below it deals in raw text.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/convokehq/convoke"
	"github.com/convokehq/convoke/logging"
)

// Options configures the HTTP server.
type Options struct {
	// StaticDir, when non-empty, is served at the web root (the bundled
	// frontend in a full deployment).
	StaticDir string

	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Server is the HTTP boundary around an Orchestrator.
type Server struct {
	orch      *convoke.Orchestrator
	staticDir string
	logger    logging.Logger
}

// New constructs a Server.
func New(orch *convoke.Orchestrator, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{orch: orch, staticDir: opts.StaticDir, logger: opts.Logger}
}

// Handler returns the fully wired HTTP handler, CORS included.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/agent/create", s.handleCreateAgent).Methods(http.MethodPost)
	r.HandleFunc("/agent/{id}", s.handleGetAgent).Methods(http.MethodGet)
	r.HandleFunc("/agent/{id}/communicate", s.handleCommunicate).Methods(http.MethodPost)
	r.HandleFunc("/orchestrator/process_request", s.handleProcessRequest).Methods(http.MethodPost)
	r.HandleFunc("/agents", s.handleListAgents).Methods(http.MethodGet)
	r.HandleFunc("/tools", s.handleListTools).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebsocket).Methods(http.MethodGet)

	if s.staticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
