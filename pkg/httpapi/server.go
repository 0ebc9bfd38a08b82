// Package httpapi exposes the corpus matcher over a small REST API, so
// editor integrations can query active documents without linking the
// library. All read endpoints serve from the store's current snapshot;
// a reload swaps snapshots atomically and never disturbs requests in
// flight.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rulebookdev/rulebook/pkg/corpus"
	"github.com/rulebookdev/rulebook/pkg/document"
	"github.com/rulebookdev/rulebook/pkg/logger"
	"github.com/rulebookdev/rulebook/pkg/matcher"
)

// Config holds the server configuration.
type Config struct {
	Host string
	Port int
}

// Validate checks the server configuration.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Server serves matcher queries over HTTP.
type Server struct {
	router *mux.Router
	store  *corpus.Store
	intent *matcher.IntentMatcher
	config *Config
	server *http.Server
}

// NewServer creates a server over the given corpus store. The store
// must have been loaded before requests arrive.
func NewServer(store *corpus.Store, config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}

	s := &Server{
		router: mux.NewRouter(),
		store:  store,
		intent: matcher.NewIntentMatcher(),
		config: config,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/documents", s.handleListDocuments).Methods("GET")
	api.HandleFunc("/documents/{class}/{name}", s.handleGetDocument).Methods("GET")
	api.HandleFunc("/match", s.handleMatchByPath).Methods("GET")
	api.HandleFunc("/intent", s.handleMatchByIntent).Methods("GET")
	api.HandleFunc("/reload", s.handleReload).Methods("POST")
	api.HandleFunc("/healthz", s.handleHealthz).Methods("GET")

	s.router.Use(s.loggingMiddleware)
}

// documentPayload is the wire form of a document.
type documentPayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Class       string   `json:"class"`
	Globs       []string `json:"globs,omitempty"`
	AlwaysApply bool     `json:"alwaysApply,omitempty"`
	Body        string   `json:"body"`
	Path        string   `json:"path"`
}

func toDocumentPayload(d *document.Document) documentPayload {
	return documentPayload{
		Name:        d.Name,
		Description: d.Description,
		Class:       string(d.Class),
		Globs:       d.Globs,
		AlwaysApply: d.AlwaysApply,
		Body:        d.Body,
		Path:        d.Path,
	}
}

// matchPayload is the wire form of a match result.
type matchPayload struct {
	documentPayload
	Pattern string  `json:"pattern,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

func toMatchPayloads(matches []matcher.Match) []matchPayload {
	out := make([]matchPayload, 0, len(matches))
	for _, m := range matches {
		out = append(out, matchPayload{
			documentPayload: toDocumentPayload(m.Document),
			Pattern:         m.Pattern,
			Score:           m.Score,
		})
	}
	return out
}

func (s *Server) snapshot(w http.ResponseWriter) *corpus.Corpus {
	snap := s.store.Snapshot()
	if snap == nil {
		s.writeError(w, http.StatusServiceUnavailable, "corpus not loaded")
		return nil
	}
	return snap
}

// handleListDocuments handles GET /api/documents with an optional
// ?class= filter.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}

	docs := snap.Documents()
	if class := r.URL.Query().Get("class"); class != "" {
		docs = snap.ByClass(document.Class(class))
	}

	payload := make([]documentPayload, 0, len(docs))
	for _, d := range docs {
		payload = append(payload, toDocumentPayload(d))
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"corpusId":  snap.ID(),
		"documents": payload,
	})
}

// handleGetDocument handles GET /api/documents/{class}/{name}.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}

	vars := mux.Vars(r)
	d, ok := snap.Get(document.Class(vars["class"]), vars["name"])
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no %s named %q", vars["class"], vars["name"]))
		return
	}

	s.writeJSON(w, http.StatusOK, toDocumentPayload(d))
}

// handleMatchByPath handles GET /api/match?path=...
func (s *Server) handleMatchByPath(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "missing required query parameter 'path'")
		return
	}

	matches, conflicts := matcher.ResolveConflicts(matcher.MatchByPath(snap, path))
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"corpusId":  snap.ID(),
		"matches":   toMatchPayloads(matches),
		"conflicts": conflictNames(conflicts),
	})
}

// handleMatchByIntent handles GET /api/intent?q=...
func (s *Server) handleMatchByIntent(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "missing required query parameter 'q'")
		return
	}

	matches, conflicts := matcher.ResolveConflicts(s.intent.Match(snap, query))
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"corpusId":  snap.ID(),
		"matches":   toMatchPayloads(matches),
		"conflicts": conflictNames(conflicts),
	})
}

func conflictNames(conflicts []matcher.Conflict) []string {
	names := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		names = append(names, string(c.Class)+"/"+c.Name)
	}
	return names
}

// handleReload handles POST /api/reload.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Reload(r.Context())
	if err != nil {
		logger.G(r.Context()).WithError(err).Error("corpus reload failed")
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"corpusId":  snap.ID(),
		"documents": snap.Len(),
	})
}

// handleHealthz handles GET /api/healthz.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	status := "ok"
	code := http.StatusOK
	if s.store.Snapshot() == nil {
		status = "corpus not loaded"
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, map[string]string{"status": status})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.G(context.Background()).WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	s.writeJSON(w, code, map[string]string{"error": message})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		logger.G(r.Context()).WithFields(map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rw.statusCode,
			"duration": time.Since(start),
		}).Info("HTTP request")
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Handler returns the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until the context is cancelled, then shuts it
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server failed")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
