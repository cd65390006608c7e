// Package core provides the node set and proximity graph used by the
// waypath navigation engine.
//
// A Graph G = (V, E) is built from positioned nodes:
//
//   - V is the set of *Node records handed over by the scene owner.
//     The graph never creates or destroys nodes on its own.
//   - E is derived: {A, B} ∈ E iff Distance(A, B) < radius, for the radius of
//     the most recent BuildAdjacency call.
//
// Derived adjacency is disposable. Any AddNode, RemoveNode or Clear drops it,
// and BuildAdjacency always rebuilds every neighbor set from scratch; neighbor
// sets are never patched incrementally.
//
// Node types:
//
//	Waypoint (0): pass-through node
//	Endpoint (1): valid navigation destination
//
// Core methods:
//
//	AddNode(n *Node) error          // O(1)
//	RemoveNode(id string) error     // O(n)
//	Clear()                         // O(1)
//	Node(id) / Nodes() / IDs()      // insertion order
//	BuildAdjacency(radius float64)  // O(n²)
//	Neighbors(id) ([]string, error) // insertion order
//	ClosestNode(p Position)         // O(n), first-seen wins ties
//
// Concurrency:
//
//	All methods are guarded by an internal RWMutex so readers never observe a
//	half-built adjacency. Interleaving a rebuild with a search that is still
//	reading neighbors is the caller's responsibility; the navigation session
//	serializes both.
//
// Quick ASCII example (radius 1.5):
//
//	A(0,0,0) ─── B(1,0,0) ─── C(2,0,0)
//
// A and C are 2 apart, so they are not neighbors.
package core
