// File: methods_adjacent.go
// Role: Proximity adjacency build and neighbor queries.
//
// Determinism:
//   - Neighbor lists follow node insertion order.
//
// Complexity:
//   - BuildAdjacency is O(n²); it runs once per navigation attempt, not per frame.
package core

import "fmt"

// BuildAdjacency discards every neighbor set and rebuilds them from scratch:
// node B is a neighbor of A iff A != B and Distance(A, B) < radius.
//
// The relation is symmetric by construction. A radius <= 0 (or NaN) produces
// empty neighbor sets; isolated nodes simply get an empty list. Never fails.
func (g *Graph) BuildAdjacency(radius float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	adj := make(map[string][]string, len(g.order))
	for _, a := range g.order {
		pa := g.nodes[a].Position
		nbrs := make([]string, 0)
		for _, b := range g.order {
			if a != b && Distance(pa, g.nodes[b].Position) < radius {
				nbrs = append(nbrs, b)
			}
		}
		adj[a] = nbrs
	}

	g.adjacency = adj
	g.radius = radius
}

// Built reports whether adjacency is current for the present node set.
func (g *Graph) Built() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.adjacency != nil
}

// Radius returns the radius of the last BuildAdjacency, or 0 when stale.
func (g *Graph) Radius() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.radius
}

// Neighbors returns a copy of the neighbor IDs of id.
// An unbuilt graph reports no neighbors for any known node.
//
// Errors: ErrNodeNotFound.
func (g *Graph) Neighbors(id string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	nbrs := g.adjacency[id]
	out := make([]string, len(nbrs))
	copy(out, nbrs)

	return out, nil
}

// Adjacent reports whether b is in the neighbor set of a.
func (g *Graph) Adjacent(a, b string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, id := range g.adjacency[a] {
		if id == b {
			return true
		}
	}

	return false
}

// AdjacencyList returns a snapshot of the whole neighbor relation.
func (g *Graph) AdjacencyList() map[string][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string][]string, len(g.adjacency))
	for id, nbrs := range g.adjacency {
		cp := make([]string, len(nbrs))
		copy(cp, nbrs)
		out[id] = cp
	}

	return out
}
