// File: methods_nodes.go
// Role: Node-set lifecycle and queries.
//
// Determinism:
//   - Nodes() and IDs() return insertion order.
//
// Invariants:
//   - Every node-set mutation discards the derived adjacency.
package core

import "fmt"

// AddNode inserts n into the graph.
// The graph stores the pointer; later position edits by the owner are observed
// by the next BuildAdjacency call.
//
// Errors: ErrNilNode, ErrEmptyNodeID, ErrNegativeCost, ErrDuplicateNode.
// Complexity: O(1) amortized.
func (g *Graph) AddNode(n *Node) error {
	if n == nil {
		return ErrNilNode
	}
	if n.ID == "" {
		return ErrEmptyNodeID
	}
	if n.Cost < 0 {
		return fmt.Errorf("%w: node %q cost=%g", ErrNegativeCost, n.ID, n.Cost)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.nodes == nil {
		g.nodes = make(map[string]*Node)
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, n.ID)
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	g.invalidate()

	return nil
}

// RemoveNode deletes the node with the given ID.
// Errors: ErrNodeNotFound.
// Complexity: O(n).
func (g *Graph) RemoveNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	delete(g.nodes, id)
	for i, cur := range g.order {
		if cur == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.invalidate()

	return nil
}

// Clear removes every node and the derived adjacency.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes = make(map[string]*Node)
	g.order = nil
	g.invalidate()
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]

	return n, ok
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.Node(id)

	return ok
}

// Nodes returns the nodes in insertion order. The slice is a fresh copy;
// the *Node values are shared with the graph.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}

	return out
}

// IDs returns node IDs in insertion order.
func (g *Graph) IDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]string, len(g.order))
	copy(out, g.order)

	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.order)
}

// ClosestNode returns the node nearest to p by Euclidean distance.
// Ties go to the node inserted first.
//
// Errors: ErrEmptyGraph when the graph holds no nodes.
// Complexity: O(n).
func (g *Graph) ClosestNode(p Position) (*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var (
		best    *Node
		bestDst float64
	)
	for _, id := range g.order {
		n := g.nodes[id]
		d := Distance(n.Position, p)
		if best == nil || d < bestDst {
			best, bestDst = n, d
		}
	}
	if best == nil {
		return nil, ErrEmptyGraph
	}

	return best, nil
}

// invalidate drops derived adjacency. Caller holds the write lock.
func (g *Graph) invalidate() {
	g.adjacency = nil
	g.radius = 0
}
