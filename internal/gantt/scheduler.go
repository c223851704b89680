package gantt

import (
	"fmt"
	"sort"
	"time"

	log "github.com/pmtech-io/jira-gantt/internal/logging"
	"github.com/pmtech-io/jira-gantt/internal/models"
)

// topologicalOrder orders nodeIDs so that every node appears after all of its
// dependencies, using Kahn's algorithm. Nodes that become ready at the same
// time are processed in arrival (FIFO) order; no secondary sort key is applied.
// Returns a *CycleError carrying the unordered node set when the graph has a cycle.
func topologicalOrder(nodeIDs []string, deps *dependencyMap) ([]string, error) {
	inDegree := make(map[string]int, len(nodeIDs))
	dependents := make(map[string][]string, len(nodeIDs))
	for _, node := range nodeIDs {
		inDegree[node] = len(deps.deps[node])
		for _, dep := range deps.deps[node] {
			dependents[dep] = append(dependents[dep], node)
		}
	}

	queue := make([]string, 0, len(nodeIDs))
	for _, node := range nodeIDs {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	order := make([]string, 0, len(nodeIDs))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		for _, dependent := range dependents[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) < len(nodeIDs) {
		var blocked []string
		for _, node := range nodeIDs {
			if inDegree[node] > 0 {
				blocked = append(blocked, node)
			}
		}
		return nil, &CycleError{Nodes: blocked}
	}

	return order, nil
}

// scheduleTimes walks the topological order and assigns concrete start and end
// instants to every node. Dependencies are processed strictly before their
// dependents, so each dependency's end time is available when needed; a missing
// end time indicates a defect in the sort and surfaces as an internal error.
func scheduleTimes(
	order []string,
	issuesByNode map[string]models.Issue,
	deps *dependencyMap,
	hierarchy map[string][]string,
	sprintStart time.Time,
	cfg models.ScheduleConfig,
) ([]models.ScheduledTask, error) {
	cal := newWorkCalendar(cfg)
	endTimes := make(map[string]time.Time, len(order))
	tasks := make([]models.ScheduledTask, 0, len(order))

	for _, nodeID := range order {
		issue, ok := issuesByNode[nodeID]
		if !ok {
			log.Warnf("Node %q not found in issues map, skipping", nodeID)
			continue
		}

		points := issue.EstimatePoints
		// A story's own estimate is raised to the sum of its children's points
		// when the children outweigh it.
		if kids, isStory := hierarchy[nodeID]; isStory {
			var childSum float64
			for _, child := range kids {
				if childIssue, ok := issuesByNode[child]; ok {
					childSum += childIssue.EstimatePoints
				}
			}
			if childSum > points {
				log.Debugf("Story %s estimate adjusted: %.1f -> %.1f points", nodeID, points, childSum)
				points = childSum
			}
		}

		hours := points * cfg.HoursPerPoint
		if hours < minTaskHours {
			hours = minTaskHours
		}

		latestDependencyEnd := sprintStart
		predecessors := make([]string, 0, len(deps.deps[nodeID]))
		for _, dep := range deps.deps[nodeID] {
			predecessors = append(predecessors, dep)
			end, ok := endTimes[dep]
			if !ok {
				return nil, fmt.Errorf("internal: dependency %q of node %q has no computed end time", dep, nodeID)
			}
			if end.After(latestDependencyEnd) {
				latestDependencyEnd = end
			}
		}
		sort.Strings(predecessors)

		start := cal.nextWorkInstant(latestDependencyEnd)
		end := cal.addWorkHours(start, hours)
		endTimes[nodeID] = end

		log.Debugf("Task %s scheduled: start=%s end=%s hours=%.2f", nodeID, start, end, hours)

		tasks = append(tasks, models.ScheduledTask{
			NodeID:         issue.NodeID,
			JiraKey:        issue.JiraKey,
			Title:          issue.Title,
			Type:           issue.Type,
			EstimatePoints: points,
			EstimateHours:  hours,
			PlanStartTime:  start,
			PlanEndTime:    end,
			Predecessors:   predecessors,
			AssigneeID:     issue.AssigneeID,
		})
	}

	return tasks, nil
}
