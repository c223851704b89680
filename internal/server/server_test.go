package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pmtech-io/jira-gantt/internal/config"
	"github.com/pmtech-io/jira-gantt/internal/gantt"
	"github.com/pmtech-io/jira-gantt/internal/models"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		ServerHost:         "localhost",
		ServerPort:         0,
		WorkingHoursPerDay: 8,
		HoursPerPoint:      4,
		StartWorkHour:      "09:00",
		EndWorkHour:        "17:30",
		LunchBreakMinutes:  30,
	}
	return New(cfg, gantt.NewCalculator(), nil)
}

func postSchedule(t *testing.T, srv *Server, req models.ScheduleRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/schedule", bytes.NewReader(body)))
	return rec
}

func TestHandleSchedule_Success(t *testing.T) {
	srv := testServer(t)

	req := models.ScheduleRequest{
		SprintName:  "Sprint 1",
		SprintStart: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
		SprintEnd:   time.Date(2026, 1, 16, 17, 30, 0, 0, time.UTC),
		Issues: []models.Issue{
			{NodeID: "a", Title: "First", Type: "Task", EstimatePoints: 2},
			{NodeID: "b", Title: "Second", Type: "Task", EstimatePoints: 2},
		},
		Connections: []models.Connection{{FromNodeID: "a", ToNodeID: "b", Type: "relates to"}},
	}

	rec := postSchedule(t, srv, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var chart models.GanttChart
	if err := json.Unmarshal(rec.Body.Bytes(), &chart); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(chart.Tasks) != 2 {
		t.Fatalf("expected 2 scheduled tasks, got %d", len(chart.Tasks))
	}
	if !chart.IsFeasible {
		t.Error("expected feasible schedule")
	}
	if chart.GeneratedAt.IsZero() {
		t.Error("expected GeneratedAt to be stamped")
	}
	if chart.SprintName != "Sprint 1" {
		t.Errorf("expected sprint name echoed, got %q", chart.SprintName)
	}
}

func TestHandleSchedule_CycleReturns422(t *testing.T) {
	srv := testServer(t)

	req := models.ScheduleRequest{
		SprintStart: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
		SprintEnd:   time.Date(2026, 1, 16, 17, 30, 0, 0, time.UTC),
		Issues: []models.Issue{
			{NodeID: "x", Type: "Task", EstimatePoints: 1},
			{NodeID: "y", Type: "Task", EstimatePoints: 1},
		},
		Connections: []models.Connection{
			{FromNodeID: "x", ToNodeID: "y", Type: "relates to"},
			{FromNodeID: "y", ToNodeID: "x", Type: "relates to"},
		},
	}

	rec := postSchedule(t, srv, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for cycle, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleSchedule_BadRequests(t *testing.T) {
	srv := testServer(t)

	// Sprint window missing entirely.
	rec := postSchedule(t, srv, models.ScheduleRequest{
		Issues: []models.Issue{{NodeID: "a", Type: "Task"}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing sprint window, got %d", rec.Code)
	}

	// No issues.
	rec = postSchedule(t, srv, models.ScheduleRequest{
		SprintStart: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
		SprintEnd:   time.Date(2026, 1, 16, 17, 30, 0, 0, time.UTC),
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty issue list, got %d", rec.Code)
	}

	// Invalid config carried in the request.
	rec = postSchedule(t, srv, models.ScheduleRequest{
		SprintStart: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
		SprintEnd:   time.Date(2026, 1, 16, 17, 30, 0, 0, time.UTC),
		Issues:      []models.Issue{{NodeID: "a", Type: "Task"}},
		Config:      &models.ScheduleConfig{HoursPerPoint: -1},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid config, got %d", rec.Code)
	}

	// Wrong method.
	recGet := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recGet, httptest.NewRequest(http.MethodGet, "/schedule", nil))
	if recGet.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for GET, got %d", recGet.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
