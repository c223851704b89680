package gantt

import (
	"fmt"
	"strings"
)

// CycleError reports that the dependency graph contains a cycle and cannot be
// fully ordered. Nodes holds the node IDs left unordered when the sort stalled.
// The request must be rejected or reported, never retried with the same input.
type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected in task dependencies involving nodes: %s", strings.Join(e.Nodes, ", "))
}

// ConfigError reports an invalid schedule configuration, rejected before any
// scheduling is attempted.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid schedule config: " + e.Reason
}
