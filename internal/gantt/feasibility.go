package gantt

import (
	"time"

	"github.com/pmtech-io/jira-gantt/internal/models"
)

// scheduleFeasible reports whether every scheduled task ends within the sprint
// window. A single overflowing task makes the whole schedule infeasible, but
// the schedule is still returned in full for the caller to act on.
func scheduleFeasible(tasks []models.ScheduledTask, sprintEnd time.Time) bool {
	for _, task := range tasks {
		if task.PlanEndTime.After(sprintEnd) {
			return false
		}
	}
	return true
}
