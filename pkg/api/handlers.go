package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rkall/classkit/pkg/index"
)

// Server holds the API server state
type Server struct {
	index   ClassIndex
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(classIndex ClassIndex, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		index:   classIndex,
		config:  config,
		metrics: metrics,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.RecordHealthCheck(true)
	}
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleListClasses lists indexed classes, optionally filtered by a name
// prefix given in dot or slash form.
func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	prefix := index.NormalizeName(r.URL.Query().Get("prefix"))

	summaries, err := s.index.List(prefix)
	if s.metrics != nil {
		s.metrics.RecordIndexLookup("list", err == nil, time.Since(start))
	}
	if err != nil {
		sendError(w, "Failed to list classes", http.StatusInternalServerError)
		return
	}
	sendSuccess(w, summaries)
}

// handleGetClass returns the summary for one class. The path parameter is
// the dot-form class name (com.foo.Shape), which avoids slashes in URLs.
func (s *Server) handleGetClass(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")
	if name == "" {
		sendError(w, "Class name is required", http.StatusBadRequest)
		return
	}

	summary, err := s.index.Get(index.NormalizeName(name))
	if s.metrics != nil {
		s.metrics.RecordIndexLookup("get", err == nil, time.Since(start))
	}
	if err != nil {
		if errors.Is(err, index.ErrNotIndexed) {
			sendError(w, "Class not found", http.StatusNotFound)
			return
		}
		sendError(w, "Failed to load class", http.StatusInternalServerError)
		return
	}
	sendSuccess(w, summary)
}

// handleListRecords lists indexed classes that carry record components.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	s.handleFiltered(w, "records", func(summary *index.ClassSummary) bool {
		return summary.IsRecord()
	})
}

// handleListSealed lists indexed classes that carry permitted subclasses.
func (s *Server) handleListSealed(w http.ResponseWriter, r *http.Request) {
	s.handleFiltered(w, "sealed", func(summary *index.ClassSummary) bool {
		return summary.IsSealed()
	})
}

func (s *Server) handleFiltered(w http.ResponseWriter, operation string, keep func(*index.ClassSummary) bool) {
	start := time.Now()
	summaries, err := s.index.List("")
	if s.metrics != nil {
		s.metrics.RecordIndexLookup(operation, err == nil, time.Since(start))
	}
	if err != nil {
		sendError(w, "Failed to list classes", http.StatusInternalServerError)
		return
	}

	filtered := make([]index.ClassSummary, 0, len(summaries))
	for i := range summaries {
		if keep(&summaries[i]) {
			filtered = append(filtered, summaries[i])
		}
	}
	sendSuccess(w, filtered)
}
