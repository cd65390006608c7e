// Package astar implements A* shortest-path search over the proximity
// adjacency of a core.Graph.
//
// Notes on implementation choices:
//
//   - The open set is a binary heap ordered by (fCost, hCost, discovery sequence).
//     The sequence term makes equal-priority choices deterministic.
//   - We use a "lazy" decrease-key strategy: improved entries are pushed again and
//     stale ones are skipped when popped from a closed node.
//   - g-costs, h-costs and predecessors live in maps local to one call, so
//     repeated or concurrent searches never share scratch state.
package astar

import (
	"container/heap"
	"fmt"

	"github.com/katalvlaran/waypath/core"
)

// FindPath searches g for the cheapest path from startID to targetID using the
// adjacency built by the most recent g.BuildAdjacency call.
//
// Moving from u to neighbor v costs Heuristic(u, v) + v.Cost. The returned
// path runs start → target inclusive; start == target yields a one-node path.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGraph).
//  2. options must be valid (ErrOptionViolation).
//  3. start and target must exist (ErrStartNotFound, ErrTargetNotFound).
//  4. adjacency must be current (ErrGraphNotBuilt).
//
// Returns ErrNotFound when the open set empties before the target is reached,
// or the context error if the run is cancelled.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E)
func FindPath(g *core.Graph, startID, targetID string, opts ...Option) (*Path, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}

	start, ok := g.Node(startID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStartNotFound, startID)
	}
	target, ok := g.Node(targetID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTargetNotFound, targetID)
	}
	if !g.Built() {
		return nil, ErrGraphNotBuilt
	}

	n := g.Len()
	r := &runner{
		g:      g,
		opts:   cfg,
		target: target,
		gCost:  make(map[string]float64, n),
		hCost:  make(map[string]float64, n),
		parent: make(map[string]string, n),
		closed: make(map[string]bool, n),
		open:   make(openSet, 0, n),
	}
	r.push(start.ID, 0, cfg.Heuristic(start.Position, target.Position))

	found, err := r.loop()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %q → %q at radius %g (%d expanded)",
			ErrNotFound, startID, targetID, g.Radius(), r.expanded)
	}

	return &Path{
		Nodes:    r.retrace(start.ID),
		Cost:     r.gCost[target.ID],
		Radius:   g.Radius(),
		Expanded: r.expanded,
	}, nil
}

// runner holds the mutable state for a single FindPath execution.
type runner struct {
	g      *core.Graph
	opts   Options
	target *core.Node

	gCost  map[string]float64 // best known cost from start; presence = discovered
	hCost  map[string]float64 // estimate to target
	parent map[string]string  // predecessor on the best known path
	closed map[string]bool    // finalized nodes

	open     openSet
	seq      uint64
	expanded int
}

// loop expands nodes until the target is closed, the open set empties,
// or the context is cancelled.
func (r *runner) loop() (bool, error) {
	for r.open.Len() > 0 {
		select {
		case <-r.opts.Ctx.Done():
			return false, r.opts.Ctx.Err()
		default:
		}

		item := heap.Pop(&r.open).(*openItem)
		if r.closed[item.id] {
			continue // stale entry
		}
		r.closed[item.id] = true
		r.expanded++
		r.opts.OnExpand(item.id, r.gCost[item.id], r.hCost[item.id])

		if item.id == r.target.ID {
			return true, nil
		}
		if err := r.relax(item.id); err != nil {
			return false, err
		}
	}

	return false, nil
}

// relax prices every open neighbor of u and records improvements.
func (r *runner) relax(u string) error {
	cur, ok := r.g.Node(u)
	if !ok {
		return fmt.Errorf("astar: node %q vanished during search: %w", u, core.ErrNodeNotFound)
	}
	neighbors, err := r.g.Neighbors(u)
	if err != nil {
		return fmt.Errorf("astar: failed to get neighbors of %q: %w", u, err)
	}

	h := r.opts.Heuristic
	for _, v := range neighbors {
		if r.closed[v] {
			continue
		}
		nbr, ok := r.g.Node(v)
		if !ok {
			continue
		}
		tentative := r.gCost[u] + h(cur.Position, nbr.Position) + nbr.Cost
		if old, seen := r.gCost[v]; seen && tentative >= old {
			continue
		}
		r.parent[v] = u
		r.push(v, tentative, h(nbr.Position, r.target.Position))
	}

	return nil
}

// push records g/h for id and adds a heap entry for it.
func (r *runner) push(id string, g, h float64) {
	r.gCost[id] = g
	r.hCost[id] = h
	r.seq++
	heap.Push(&r.open, &openItem{id: id, f: g + h, h: h, seq: r.seq})
}

// retrace follows parent links from the target back to start and reverses them.
func (r *runner) retrace(startID string) []string {
	path := []string{r.target.ID}
	for cur := r.target.ID; cur != startID; {
		cur = r.parent[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}

// openItem is one heap entry: a node and the priority it was pushed with.
type openItem struct {
	id  string
	f   float64
	h   float64
	seq uint64
}

// openSet is a min-heap of *openItem by (f, h, seq).
type openSet []*openItem

func (pq openSet) Len() int { return len(pq) }

func (pq openSet) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}

	return a.seq < b.seq
}

func (pq openSet) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *openSet) Push(x interface{}) { *pq = append(*pq, x.(*openItem)) }

func (pq *openSet) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
