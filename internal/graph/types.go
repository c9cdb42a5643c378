package graph

import "sync"

// EdgeKind distinguishes gating dependencies from scheduling preferences.
type EdgeKind string

const (
	// HardDependency requires the predecessor to reach a terminal state
	// before the dependent task may start. Running the dependent also
	// triggers the predecessor.
	HardDependency EdgeKind = "depends-on"

	// SoftRunAfter orders two tasks when both are scheduled, without
	// forcing the predecessor to run at all.
	SoftRunAfter EdgeKind = "runs-after"
)

// Edge is a snapshot of a single relation in the graph. From is the task
// that waits; To is the task it waits for.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
}

// Graph is a collection of task nodes and their ordering relations.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	// id is the unique identifier for the node.
	id string
	// deps holds the hard predecessors of this node.
	deps map[string]*node
	// dependents holds the hard successors of this node.
	dependents map[string]*node
	// runAfter holds the soft predecessors of this node.
	runAfter map[string]*node
	// softDependents holds the soft successors of this node.
	softDependents map[string]*node
}
