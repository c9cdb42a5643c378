package graph

import (
	"fmt"
	"sort"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:             id,
		deps:           make(map[string]*node),
		dependents:     make(map[string]*node),
		runAfter:       make(map[string]*node),
		softDependents: make(map[string]*node),
	}
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// AddDependency creates a hard dependency edge: the `id` node cannot
// start until the `dependsOn` node has reached a terminal state. An error
// is returned if either node does not exist or if the edge would be a
// self-reference.
func (g *Graph) AddDependency(id, dependsOn string) error {
	if id == dependsOn {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", id, id)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	from, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("dependent node not found: %s", id)
	}
	to, ok := g.nodes[dependsOn]
	if !ok {
		return fmt.Errorf("dependency node not found: %s", dependsOn)
	}

	from.deps[dependsOn] = to
	to.dependents[id] = from

	return nil
}

// AddRunAfter creates a soft ordering edge: when both nodes are scheduled,
// the `id` node runs after `predecessor`, but the predecessor is never
// forced to run. An error is returned if either node does not exist or if
// the edge would be a self-reference.
func (g *Graph) AddRunAfter(id, predecessor string) error {
	if id == predecessor {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", id, id)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	from, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("dependent node not found: %s", id)
	}
	to, ok := g.nodes[predecessor]
	if !ok {
		return fmt.Errorf("predecessor node not found: %s", predecessor)
	}

	from.runAfter[predecessor] = to
	to.softDependents[id] = from

	return nil
}

// Dependencies returns a sorted slice of node IDs the given node hard-depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedKeys(n.deps), nil
}

// Dependents returns a sorted slice of node IDs that hard-depend on the given node.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedKeys(n.dependents), nil
}

// RunAfter returns a sorted slice of the given node's soft predecessors.
func (g *Graph) RunAfter(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedKeys(n.runAfter), nil
}

// SoftDependents returns a sorted slice of node IDs that have a
// runs-after edge pointing at the given node.
func (g *Graph) SoftDependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedKeys(n.softDependents), nil
}

// TransitiveDependencies returns the sorted set of node IDs reachable from
// the given node by following hard dependency edges. The node itself is
// not included.
func (g *Graph) TransitiveDependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	start, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}

	visited := make(map[string]bool)
	var visit func(n *node)
	visit = func(n *node) {
		for depID, dep := range n.deps {
			if visited[depID] {
				continue
			}
			visited[depID] = true
			visit(dep)
		}
	}
	visit(start)

	ids := make([]string, 0, len(visited))
	for depID := range visited {
		ids = append(ids, depID)
	}
	sort.Strings(ids)
	return ids, nil
}

// Edges returns a deterministic snapshot of every edge in the graph,
// sorted by source, target and kind.
func (g *Graph) Edges() []Edge {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var edges []Edge
	for id, n := range g.nodes {
		for depID := range n.deps {
			edges = append(edges, Edge{From: id, To: depID, Kind: HardDependency})
		}
		for predID := range n.runAfter {
			edges = append(edges, Edge{From: id, To: predID, Kind: SoftRunAfter})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}
		return edges[i].Kind < edges[j].Kind
	})
	return edges
}

// DetectCycles checks the graph for any cycles across both hard and soft
// edges. It returns a non-nil error naming the first node found to be
// part of a cycle.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Classic depth-first search with two sets of nodes: permanent for
	// nodes fully visited and known safe, temporary for nodes currently
	// in the recursion stack.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("cycle detected involving node '%s'", n.id)
		}

		temporary[n.id] = true

		for _, dep := range n.deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		for _, pred := range n.runAfter {
			if err := visit(pred); err != nil {
				return err
			}
		}

		delete(temporary, n.id)
		permanent[n.id] = true

		return nil
	}

	for _, n := range g.nodes {
		if !permanent[n.id] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}

	return nil
}

func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
