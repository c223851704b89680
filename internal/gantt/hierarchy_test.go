package gantt

import (
	"testing"

	"github.com/pmtech-io/jira-gantt/internal/models"
)

func TestReconcileHierarchy_StorySpanFromChildren(t *testing.T) {
	tasks := []models.ScheduledTask{
		{NodeID: "S", PlanStartTime: monday(9, 0), PlanEndTime: monday(10, 0)},
		{NodeID: "T1", PlanStartTime: monday(9, 0), PlanEndTime: monday(13, 0)},
		{NodeID: "T2", PlanStartTime: monday(13, 0), PlanEndTime: day(6, 12, 30)},
	}

	reconcileHierarchy(tasks, map[string][]string{"S": {"T1", "T2"}})

	story := tasks[0]
	if !story.PlanStartTime.Equal(monday(9, 0)) {
		t.Errorf("expected story start Monday 09:00, got %v", story.PlanStartTime)
	}
	if !story.PlanEndTime.Equal(day(6, 12, 30)) {
		t.Errorf("expected story end Tuesday 12:30, got %v", story.PlanEndTime)
	}
}

func TestReconcileHierarchy_NoScheduledChildrenKeepsLeafSpan(t *testing.T) {
	tasks := []models.ScheduledTask{
		{NodeID: "S", PlanStartTime: monday(9, 0), PlanEndTime: monday(11, 0)},
	}

	reconcileHierarchy(tasks, map[string][]string{"S": {"missing1", "missing2"}})

	story := tasks[0]
	if !story.PlanStartTime.Equal(monday(9, 0)) || !story.PlanEndTime.Equal(monday(11, 0)) {
		t.Errorf("expected story to keep its leaf span, got %v to %v", story.PlanStartTime, story.PlanEndTime)
	}
}

func TestReconcileHierarchy_UnscheduledStoryIgnored(t *testing.T) {
	tasks := []models.ScheduledTask{
		{NodeID: "T1", PlanStartTime: monday(9, 0), PlanEndTime: monday(13, 0)},
	}

	// Must not panic or mutate the child.
	reconcileHierarchy(tasks, map[string][]string{"ghost-story": {"T1"}})

	if !tasks[0].PlanStartTime.Equal(monday(9, 0)) || !tasks[0].PlanEndTime.Equal(monday(13, 0)) {
		t.Errorf("expected child untouched, got %v to %v", tasks[0].PlanStartTime, tasks[0].PlanEndTime)
	}
}
