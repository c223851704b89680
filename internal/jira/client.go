package jira

import (
	"context"
	"fmt"
	"strings"

	v2 "github.com/ctreminiom/go-atlassian/v2/jira/v2"
	atlassian "github.com/ctreminiom/go-atlassian/v2/pkg/infra/models"

	"github.com/pmtech-io/jira-gantt/internal/config"
	log "github.com/pmtech-io/jira-gantt/internal/logging"
	"github.com/pmtech-io/jira-gantt/internal/models"
)

const searchPageSize = 50

// relatesLinkName is the Jira link type whose halves become scheduling connections.
const relatesLinkName = "Relates"

// Client is an IssueSource backed by the Jira REST API via go-atlassian.
type Client struct {
	api *v2.Client
}

// NewClient creates a Jira-backed issue source from the application configuration.
func NewClient(cfg *config.Config) (*Client, error) {
	api, err := v2.New(nil, cfg.JiraBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jira client: %w", err)
	}
	api.Auth.SetBasicAuth(cfg.JiraUsername, cfg.JiraAPIToken)
	return &Client{api: api}, nil
}

// EnrichIssues resolves titles, assignees, issue links and parent relations for
// the given issues from Jira. Issues without a Jira key are passed through
// unchanged. Links pointing outside the given issue set are dropped.
func (c *Client) EnrichIssues(ctx context.Context, issues []models.Issue) (*Enrichment, error) {
	keys := make([]string, 0, len(issues))
	for _, issue := range issues {
		if issue.JiraKey != "" {
			keys = append(keys, issue.JiraKey)
		}
	}
	if len(keys) == 0 {
		return &Enrichment{Issues: issues, Hierarchy: map[string][]string{}}, nil
	}

	fetched, err := c.searchByKeys(ctx, keys)
	if err != nil {
		return nil, err
	}
	log.Debugf("Fetched %d of %d issues from Jira", len(fetched), len(keys))

	return mapEnrichment(issues, fetched), nil
}

// searchByKeys pages through a "key IN (...)" JQL search.
func (c *Client) searchByKeys(ctx context.Context, keys []string) ([]*atlassian.IssueSchemeV2, error) {
	jql := fmt.Sprintf("key IN (%s)", strings.Join(keys, ", "))
	fields := []string{"summary", "issuetype", "assignee", "issuelinks", "parent"}

	var out []*atlassian.IssueSchemeV2
	for startAt := 0; ; startAt += searchPageSize {
		page, _, err := c.api.Issue.Search.Get(ctx, jql, fields, nil, startAt, searchPageSize, "")
		if err != nil {
			return nil, fmt.Errorf("failed to search issues: %w", err)
		}
		out = append(out, page.Issues...)
		if startAt+searchPageSize >= page.Total || len(page.Issues) == 0 {
			break
		}
	}
	return out, nil
}

// mapEnrichment merges fetched Jira data into the request issues and derives
// connections and hierarchy. Pure; exercised directly in tests.
func mapEnrichment(issues []models.Issue, fetched []*atlassian.IssueSchemeV2) *Enrichment {
	nodeByKey := make(map[string]string, len(issues))
	for _, issue := range issues {
		if issue.JiraKey != "" {
			nodeByKey[issue.JiraKey] = issue.NodeID
		}
	}

	fetchedByKey := make(map[string]*atlassian.IssueSchemeV2, len(fetched))
	for _, item := range fetched {
		fetchedByKey[item.Key] = item
	}

	enriched := make([]models.Issue, len(issues))
	var connections []models.Connection
	hierarchy := make(map[string][]string)

	for i, issue := range issues {
		enriched[i] = issue

		item, ok := fetchedByKey[issue.JiraKey]
		if !ok || item.Fields == nil {
			if issue.JiraKey != "" {
				log.Warnf("Issue %s not found in Jira, keeping request values", issue.JiraKey)
			}
			continue
		}

		if item.Fields.Summary != "" {
			enriched[i].Title = item.Fields.Summary
		}
		if enriched[i].Type == "" && item.Fields.IssueType != nil {
			enriched[i].Type = item.Fields.IssueType.Name
		}
		if item.Fields.Assignee != nil {
			enriched[i].AssigneeID = item.Fields.Assignee.AccountID
		}

		// Parent relation: the parent becomes a story owning this node.
		if item.Fields.Parent != nil {
			if parentNode, ok := nodeByKey[item.Fields.Parent.Key]; ok {
				hierarchy[parentNode] = append(hierarchy[parentNode], issue.NodeID)
			}
		}

		// Only the outward half of a "Relates" link produces a connection, so
		// each link is emitted once.
		for _, link := range item.Fields.IssueLinks {
			if link == nil || link.Type == nil || link.Type.Name != relatesLinkName {
				continue
			}
			if link.OutwardIssue == nil {
				continue
			}
			targetNode, ok := nodeByKey[link.OutwardIssue.Key]
			if !ok {
				log.Debugf("Link from %s points outside the issue set (%s), dropping", issue.JiraKey, link.OutwardIssue.Key)
				continue
			}
			connections = append(connections, models.Connection{
				FromNodeID: issue.NodeID,
				ToNodeID:   targetNode,
				Type:       models.ConnectionRelates,
			})
		}
	}

	return &Enrichment{Issues: enriched, Connections: connections, Hierarchy: hierarchy}
}
