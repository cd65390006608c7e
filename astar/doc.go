// Package astar provides A* pathfinding over the proximity graph built by
// core.Graph.BuildAdjacency.
//
// Overview:
//
//   - FindPath expands nodes in increasing fCost = gCost + hCost order, breaking
//     ties by the lower hCost and then by discovery order.
//   - Edge prices are derived, not stored: stepping from u to v costs
//     Heuristic(u, v) + v.Cost, where Cost is the node's static terrain weight.
//   - The default heuristic is Octile over the ground plane (X, Z). Because the
//     same metric prices edges, it is consistent, so the first time the target
//     is closed its g-cost is optimal.
//
// When to use:
//
//   - Guided tours over hand-placed waypoints whose connectivity is "whatever is
//     within reach", with no authored edges.
//   - Any node cloud where you can afford an O(n²) neighbor rebuild per query.
//
// Error handling (sentinel errors):
//
//   - ErrNilGraph, ErrStartNotFound, ErrTargetNotFound, ErrGraphNotBuilt:
//     caller mistakes, reported before any expansion.
//   - ErrNotFound: the target is not reachable at the current radius. Callers
//     typically rebuild with a larger radius and retry (see package navigation).
//   - ErrOptionViolation: an invalid functional option (e.g. nil heuristic).
//
// API reference:
//
//	func FindPath(g *core.Graph, startID, targetID string, opts ...Option) (*Path, error)
//
//	  - WithContext(ctx):        cancellation, checked once per expansion.
//	  - WithHeuristic(h):        Octile (default), Euclidean or Zero, or your own metric.
//	  - WithOnExpand(fn):        observe each node as it is finalized.
//
// Thread safety:
//
//   - All per-search state is local to the call. The graph must not be rebuilt
//     while a search is reading it; package navigation serializes the two.
package astar
