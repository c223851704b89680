package jira

import (
	"context"

	"github.com/pmtech-io/jira-gantt/internal/models"
)

// Enrichment carries the scheduling inputs resolved from the issue tracker:
// issues with titles and assignees filled in, "relates to" connections derived
// from issue links, and the story hierarchy derived from parent relations.
type Enrichment struct {
	Issues      []models.Issue
	Connections []models.Connection
	Hierarchy   map[string][]string
}

// IssueSource resolves scheduling inputs from an issue tracker. The schedule
// core never fetches anything itself; it consumes already-resolved lists and maps.
type IssueSource interface {
	EnrichIssues(ctx context.Context, issues []models.Issue) (*Enrichment, error)
}
