package gantt

import (
	log "github.com/pmtech-io/jira-gantt/internal/logging"
	"github.com/pmtech-io/jira-gantt/internal/models"
)

// reconcileHierarchy recomputes each story's span from its scheduled children:
// the story starts with its earliest child and ends with its latest. Stories
// with no scheduled children keep the span they were given as a leaf. A single
// pass suffices because stories form one non-recursive level of hierarchy and
// propagated dependencies already order the tasks across stories.
func reconcileHierarchy(tasks []models.ScheduledTask, hierarchy map[string][]string) {
	index := make(map[string]int, len(tasks))
	for i, task := range tasks {
		index[task.NodeID] = i
	}

	for story, kids := range hierarchy {
		storyIdx, ok := index[story]
		if !ok {
			log.Warnf("Hierarchy story %q was not scheduled, skipping reconciliation", story)
			continue
		}

		found := false
		var start, end = tasks[storyIdx].PlanStartTime, tasks[storyIdx].PlanEndTime
		for _, child := range kids {
			childIdx, ok := index[child]
			if !ok {
				continue
			}
			childTask := tasks[childIdx]
			if !found {
				start, end = childTask.PlanStartTime, childTask.PlanEndTime
				found = true
				continue
			}
			if childTask.PlanStartTime.Before(start) {
				start = childTask.PlanStartTime
			}
			if childTask.PlanEndTime.After(end) {
				end = childTask.PlanEndTime
			}
		}
		if !found {
			continue
		}

		tasks[storyIdx].PlanStartTime = start
		tasks[storyIdx].PlanEndTime = end
	}
}
