package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pmtech-io/jira-gantt/internal/config"
	"github.com/pmtech-io/jira-gantt/internal/gantt"
	"github.com/pmtech-io/jira-gantt/internal/jira"
	log "github.com/pmtech-io/jira-gantt/internal/logging"
	"github.com/pmtech-io/jira-gantt/internal/models"
)

// Server exposes schedule calculation over HTTP. The transport stays thin:
// decode the request, resolve collaborators, run the calculator, encode the result.
type Server struct {
	cfg        *config.Config
	calculator gantt.Scheduler
	source     jira.IssueSource // nil when Jira enrichment is not configured
	httpServer *http.Server
}

// New creates a Server. source may be nil; requests are then scheduled from
// their own payload without tracker enrichment.
func New(cfg *config.Config, calculator gantt.Scheduler, source jira.IssueSource) *Server {
	s := &Server{cfg: cfg, calculator: calculator, source: source}

	mux := http.NewServeMux()
	mux.HandleFunc("/schedule", s.handleSchedule)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}
	return s
}

// Start runs the HTTP server until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting HTTP server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Infof("Shutting down server...")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "only POST is supported")
		return
	}

	requestID := uuid.NewString()

	var req models.ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warnf("[%s] Failed to decode schedule request: %v", requestID, err)
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SprintStart.IsZero() || req.SprintEnd.IsZero() || !req.SprintEnd.After(req.SprintStart) {
		writeJSONError(w, http.StatusBadRequest, "sprintStart must be before sprintEnd")
		return
	}
	if len(req.Issues) == 0 {
		writeJSONError(w, http.StatusBadRequest, "at least one issue is required")
		return
	}

	log.Infof("[%s] Schedule request: %d issues, %d connections", requestID, len(req.Issues), len(req.Connections))

	issues := req.Issues
	connections := req.Connections
	hierarchy := req.Hierarchy
	if hierarchy == nil {
		hierarchy = map[string][]string{}
	}

	if s.source != nil {
		enrichment, err := s.source.EnrichIssues(r.Context(), issues)
		if err != nil {
			// Enrichment is best effort; the request payload alone is enough to schedule.
			log.Warnf("[%s] Jira enrichment failed, scheduling from request payload: %v", requestID, err)
		} else {
			issues = enrichment.Issues
			connections = append(connections, enrichment.Connections...)
			for story, kids := range enrichment.Hierarchy {
				hierarchy[story] = append(hierarchy[story], kids...)
			}
		}
	}

	cfg := s.cfg.ScheduleDefaults()
	if req.Config != nil {
		cfg = *req.Config
	}

	tasks, feasible, err := s.calculator.CalculateSchedule(req.SprintStart, req.SprintEnd, issues, connections, hierarchy, cfg)
	if err != nil {
		var cycleErr *gantt.CycleError
		var cfgErr *gantt.ConfigError
		switch {
		case errors.As(err, &cycleErr):
			log.Warnf("[%s] %v", requestID, err)
			writeJSONError(w, http.StatusUnprocessableEntity, cycleErr.Error())
		case errors.As(err, &cfgErr):
			writeJSONError(w, http.StatusBadRequest, cfgErr.Error())
		default:
			log.Errorf("[%s] Schedule calculation failed: %v", requestID, err)
			writeJSONError(w, http.StatusInternalServerError, "schedule calculation failed")
		}
		return
	}

	chart := models.NewGanttChart(&req, tasks, feasible, cfg)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(chart); err != nil {
		log.Errorf("[%s] Failed to encode response: %v", requestID, err)
	}
}

// writeJSONError writes a JSON error response with the given status code and message
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    statusCode,
			"message": message,
		},
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Error: " + message))
	}
}
