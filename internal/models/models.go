package models

import (
	"fmt"
	"time"
)

// Issue types recognized by the scheduler.
const (
	IssueTypeTask    = "Task"
	IssueTypeStory   = "Story"
	IssueTypeBug     = "Bug"
	IssueTypeEpic    = "Epic"
	IssueTypeSubtask = "Subtask"
)

// ConnectionRelates is the only connection type that drives scheduling order.
// Other link types are kept for display but never produce dependency edges.
const ConnectionRelates = "relates to"

// Issue represents a work item in calculation input. Immutable once submitted.
type Issue struct {
	NodeID         string  `json:"nodeId"`
	JiraKey        string  `json:"jiraKey,omitempty"`
	Title          string  `json:"title"`
	Type           string  `json:"type"` // Task, Story, Bug, Epic, Subtask
	EstimatePoints float64 `json:"estimatePoints"`
	AssigneeID     string  `json:"assigneeId,omitempty"`
}

// Connection represents a directed link between two issues.
// The to-node depends on the from-node: from must finish before to starts.
type Connection struct {
	FromNodeID string `json:"fromNodeId"`
	ToNodeID   string `json:"toNodeId"`
	Type       string `json:"type"` // "relates to" or "contains"
}

// TimeOfDay is a clock time within a work day.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseTimeOfDay parses a "HH:MM" string such as "09:00" or "17:30".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// Minutes returns the offset from midnight in minutes.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ScheduleConfig carries the work-calendar parameters for a scheduling run.
type ScheduleConfig struct {
	WorkingHoursPerDay float64   `json:"workingHoursPerDay"`
	HoursPerPoint      float64   `json:"hoursPerPoint"`
	StartWorkHour      TimeOfDay `json:"startWorkHour"`
	EndWorkHour        TimeOfDay `json:"endWorkHour"`
	LunchBreakMinutes  int       `json:"lunchBreakMinutes"`
	// IncludeWeekends is accepted for compatibility but the calendar always
	// excludes weekends regardless of its value.
	IncludeWeekends bool `json:"includeWeekends"`
}

// ScheduledTask is a fully scheduled issue in the calculation output.
type ScheduledTask struct {
	NodeID         string    `json:"nodeId"`
	JiraKey        string    `json:"jiraKey,omitempty"`
	Title          string    `json:"title"`
	Type           string    `json:"type"`
	EstimatePoints float64   `json:"estimatePoints"`
	EstimateHours  float64   `json:"estimateHours"`
	PlanStartTime  time.Time `json:"planStartTime"`
	PlanEndTime    time.Time `json:"planEndTime"`
	Predecessors   []string  `json:"predecessors"` // node IDs this task depends on, post-propagation
	AssigneeID     string    `json:"assigneeId,omitempty"`
}

// ScheduleRequest is the transport-level request for a schedule calculation.
type ScheduleRequest struct {
	SprintName  string              `json:"sprintName,omitempty"`
	ProjectKey  string              `json:"projectKey,omitempty"`
	SprintStart time.Time           `json:"sprintStart"`
	SprintEnd   time.Time           `json:"sprintEnd"`
	Issues      []Issue             `json:"issues"`
	Connections []Connection        `json:"connections"`
	Hierarchy   map[string][]string `json:"hierarchy,omitempty"`
	Config      *ScheduleConfig     `json:"config,omitempty"`
}

// GanttChart is the result envelope returned to callers.
type GanttChart struct {
	SprintName  string          `json:"sprintName,omitempty"`
	ProjectKey  string          `json:"projectKey,omitempty"`
	Tasks       []ScheduledTask `json:"tasks"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	IsFeasible  bool            `json:"isFeasible"`
	Config      ScheduleConfig  `json:"config"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// NewGanttChart assembles a result envelope. GeneratedAt is stamped here, at
// construction time, never from a shared default value.
func NewGanttChart(req *ScheduleRequest, tasks []ScheduledTask, feasible bool, cfg ScheduleConfig) *GanttChart {
	return &GanttChart{
		SprintName:  req.SprintName,
		ProjectKey:  req.ProjectKey,
		Tasks:       tasks,
		StartDate:   req.SprintStart,
		EndDate:     req.SprintEnd,
		IsFeasible:  feasible,
		Config:      cfg,
		GeneratedAt: time.Now().UTC(),
	}
}
