package gantt

import (
	"time"

	log "github.com/pmtech-io/jira-gantt/internal/logging"
	"github.com/pmtech-io/jira-gantt/internal/models"
)

// Scheduler is the scheduling capability consumed by transports.
type Scheduler interface {
	CalculateSchedule(
		sprintStart, sprintEnd time.Time,
		issues []models.Issue,
		connections []models.Connection,
		hierarchy map[string][]string,
		cfg models.ScheduleConfig,
	) ([]models.ScheduledTask, bool, error)
}

// Calculator computes Gantt schedules. It holds no state between calls, so a
// single instance is safe for concurrent use.
type Calculator struct{}

// NewCalculator creates a schedule calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// CalculateSchedule computes concrete start/end instants for every issue such
// that dependency ordering is respected, work-calendar constraints are honored
// and story spans are derived from their children. The boolean result reports
// whether every task ends within the sprint window; an infeasible schedule is
// still returned in full.
//
// Returns *ConfigError for an invalid configuration and *CycleError when the
// connections form a dependency cycle.
func (c *Calculator) CalculateSchedule(
	sprintStart, sprintEnd time.Time,
	issues []models.Issue,
	connections []models.Connection,
	hierarchy map[string][]string,
	cfg models.ScheduleConfig,
) ([]models.ScheduledTask, bool, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, false, err
	}

	log.Infof("Starting schedule calculation for %d issues", len(issues))
	log.Debugf("Sprint period: %s to %s", sprintStart, sprintEnd)
	log.Debugf("Configuration: hoursPerPoint=%.1f hoursPerDay=%.1f window=%s-%s lunch=%dm",
		cfg.HoursPerPoint, cfg.WorkingHoursPerDay, cfg.StartWorkHour, cfg.EndWorkHour, cfg.LunchBreakMinutes)

	deps := buildDependencyGraph(issues, connections, hierarchy)
	log.Debugf("Dependency map created with %d entries", len(deps.deps))

	issuesByNode := make(map[string]models.Issue, len(issues))
	nodeIDs := make([]string, 0, len(issues))
	for _, issue := range issues {
		issuesByNode[issue.NodeID] = issue
		nodeIDs = append(nodeIDs, issue.NodeID)
	}

	order, err := topologicalOrder(nodeIDs, deps)
	if err != nil {
		log.Errorf("Topological sort failed: %v", err)
		return nil, false, err
	}
	log.Debugf("Topological order: %v", order)

	tasks, err := scheduleTimes(order, issuesByNode, deps, hierarchy, sprintStart, cfg)
	if err != nil {
		log.Errorf("Time assignment failed: %v", err)
		return nil, false, err
	}

	reconcileHierarchy(tasks, hierarchy)

	feasible := scheduleFeasible(tasks, sprintEnd)
	if !feasible {
		log.Warnf("Schedule overflows the sprint window ending %s", sprintEnd)
	}

	log.Infof("Schedule calculation completed: %d tasks scheduled, feasible=%t", len(tasks), feasible)
	return tasks, feasible, nil
}

// validateConfig rejects configurations that cannot produce a valid schedule.
func validateConfig(cfg models.ScheduleConfig) error {
	if cfg.WorkingHoursPerDay <= 0 {
		return &ConfigError{Reason: "working hours per day must be positive"}
	}
	if cfg.HoursPerPoint <= 0 {
		return &ConfigError{Reason: "hours per point must be positive"}
	}
	if cfg.StartWorkHour.Minutes() >= cfg.EndWorkHour.Minutes() {
		return &ConfigError{Reason: "start work hour must be before end work hour"}
	}
	if cfg.LunchBreakMinutes < 0 {
		return &ConfigError{Reason: "lunch break minutes must not be negative"}
	}
	return nil
}
