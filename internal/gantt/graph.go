package gantt

import (
	"strings"

	log "github.com/pmtech-io/jira-gantt/internal/logging"
	"github.com/pmtech-io/jira-gantt/internal/models"
)

// dependencyMap maps a node ID to the ordered list of node IDs it depends on.
// Every scheduled node is present as a key, even with no dependencies, so
// isolated nodes still get scheduled. Slices keep insertion order so repeated
// runs over the same input produce identical output.
type dependencyMap struct {
	deps map[string][]string
	seen map[string]map[string]struct{}
}

func newDependencyMap() *dependencyMap {
	return &dependencyMap{
		deps: make(map[string][]string),
		seen: make(map[string]map[string]struct{}),
	}
}

func (m *dependencyMap) ensure(node string) {
	if _, ok := m.seen[node]; !ok {
		m.seen[node] = make(map[string]struct{})
		m.deps[node] = nil
	}
}

// add records that node depends on dep. Returns false when the edge already exists.
func (m *dependencyMap) add(node, dep string) bool {
	m.ensure(node)
	m.ensure(dep)
	if _, ok := m.seen[node][dep]; ok {
		return false
	}
	m.seen[node][dep] = struct{}{}
	m.deps[node] = append(m.deps[node], dep)
	return true
}

func (m *dependencyMap) has(node, dep string) bool {
	set, ok := m.seen[node]
	if !ok {
		return false
	}
	_, ok = set[dep]
	return ok
}

// buildDependencyGraph filters connections down to ordering edges, propagates
// story-to-story edges onto their child tasks and returns the effective
// dependency map used by the topological scheduler.
//
// Connections of types other than "relates to" never produce edges. Edges
// referencing node IDs absent from issues are skipped and logged rather than
// failing the request.
func buildDependencyGraph(issues []models.Issue, connections []models.Connection, hierarchy map[string][]string) *dependencyMap {
	known := make(map[string]struct{}, len(issues))
	deps := newDependencyMap()
	for _, issue := range issues {
		known[issue.NodeID] = struct{}{}
		deps.ensure(issue.NodeID)
	}

	// Direct edges from "relates to" connections.
	var ordering []models.Connection
	for _, conn := range connections {
		if !strings.EqualFold(conn.Type, models.ConnectionRelates) {
			log.Debugf("Ignoring connection %s -> %s of type %q for ordering", conn.FromNodeID, conn.ToNodeID, conn.Type)
			continue
		}
		if _, ok := known[conn.FromNodeID]; !ok {
			log.Warnf("Connection references unknown node %q, skipping", conn.FromNodeID)
			continue
		}
		if _, ok := known[conn.ToNodeID]; !ok {
			log.Warnf("Connection references unknown node %q, skipping", conn.ToNodeID)
			continue
		}
		ordering = append(ordering, conn)
		deps.add(conn.ToNodeID, conn.FromNodeID)
	}

	// Children maps, restricted to known nodes. Dangling child references are
	// dropped with a warning, mirroring the connection policy above.
	children := make(map[string][]string, len(hierarchy))
	childSets := make(map[string]map[string]struct{}, len(hierarchy))
	for story, kids := range hierarchy {
		set := make(map[string]struct{}, len(kids))
		var valid []string
		for _, child := range kids {
			if _, ok := known[child]; !ok {
				log.Warnf("Hierarchy entry for story %q references unknown child %q, skipping", story, child)
				continue
			}
			set[child] = struct{}{}
			valid = append(valid, child)
		}
		children[story] = valid
		childSets[story] = set
	}

	// Cross-story propagation: when story A relates to story B, every terminal
	// child of A must precede every initial child of B.
	for _, conn := range ordering {
		fromKids, fromIsStory := children[conn.FromNodeID]
		toKids, toIsStory := children[conn.ToNodeID]
		if !fromIsStory || !toIsStory {
			continue
		}
		if len(fromKids) == 0 || len(toKids) == 0 {
			log.Debugf("Story pair %s -> %s has an empty side, skipping propagation", conn.FromNodeID, conn.ToNodeID)
			continue
		}

		terminals := terminalChildren(fromKids, childSets[conn.FromNodeID], ordering)
		initials := initialChildren(toKids, childSets[conn.ToNodeID], ordering)

		added := 0
		for _, terminal := range terminals {
			for _, initial := range initials {
				if deps.add(initial, terminal) {
					added++
				}
			}
		}
		if added > 0 {
			log.Debugf("Propagated %d edges from story %s to story %s", added, conn.FromNodeID, conn.ToNodeID)
		}
	}

	return deps
}

// terminalChildren returns the children with no outgoing "relates to" edge to
// another child of the same story. Without internal edges every child is terminal.
func terminalChildren(kids []string, kidSet map[string]struct{}, ordering []models.Connection) []string {
	var out []string
	for _, child := range kids {
		outgoing := false
		for _, conn := range ordering {
			if conn.FromNodeID != child || conn.ToNodeID == child {
				continue
			}
			if _, ok := kidSet[conn.ToNodeID]; ok {
				outgoing = true
				break
			}
		}
		if !outgoing {
			out = append(out, child)
		}
	}
	return out
}

// initialChildren returns the children with no incoming "relates to" edge from
// another child of the same story.
func initialChildren(kids []string, kidSet map[string]struct{}, ordering []models.Connection) []string {
	var out []string
	for _, child := range kids {
		incoming := false
		for _, conn := range ordering {
			if conn.ToNodeID != child || conn.FromNodeID == child {
				continue
			}
			if _, ok := kidSet[conn.FromNodeID]; ok {
				incoming = true
				break
			}
		}
		if !incoming {
			out = append(out, child)
		}
	}
	return out
}
