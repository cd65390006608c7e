// Package astar defines options, heuristics, results and sentinel errors
// for A* search over a core.Graph.
package astar

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/waypath/core"
)

// Sentinel errors returned by FindPath.
var (
	// ErrNilGraph indicates that a nil *core.Graph was passed to FindPath.
	ErrNilGraph = errors.New("astar: graph is nil")

	// ErrGraphNotBuilt indicates the graph adjacency is stale (BuildAdjacency not called
	// since the last node-set change).
	ErrGraphNotBuilt = errors.New("astar: graph adjacency not built")

	// ErrStartNotFound indicates the start node does not exist in the graph.
	ErrStartNotFound = errors.New("astar: start node not found in graph")

	// ErrTargetNotFound indicates the target node does not exist in the graph.
	ErrTargetNotFound = errors.New("astar: target node not found in graph")

	// ErrNotFound indicates the open set was exhausted without reaching the target.
	// It is recoverable: rebuilding with a larger radius may connect the target.
	ErrNotFound = errors.New("astar: no path to target")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("astar: invalid option supplied")
)

// Heuristic estimates the remaining cost between two positions.
// It also prices every edge: moving from u to v costs Heuristic(u, v) + v.Cost.
// For A* to stay optimal the function must be a metric (non-negative,
// symmetric, triangle inequality); all heuristics in this package are.
type Heuristic func(a, b core.Position) float64

// Octile is the grid-movement estimate over the ground plane (X and Z axes):
//
//	14·min(dx, dz) + 10·(max(dx, dz) − min(dx, dz))
//
// i.e. 10 per orthogonal unit and 14 ≈ 10√2 per diagonal unit.
// Height (Y) is ignored, so nodes stacked vertically are free to move between.
func Octile(a, b core.Position) float64 {
	dx := math.Abs(a.X - b.X)
	dz := math.Abs(a.Z - b.Z)
	lo, hi := math.Min(dx, dz), math.Max(dx, dz)

	return 14*lo + 10*(hi-lo)
}

// Euclidean is the straight-line 3D distance.
func Euclidean(a, b core.Position) float64 { return core.Distance(a, b) }

// Zero always returns 0. Edge costs then reduce to node costs and A* degrades
// to uniform-cost search; useful as a reference in tests.
func Zero(_, _ core.Position) float64 { return 0 }

// Options holds parameters and callbacks for a FindPath run.
type Options struct {
	// Ctx allows cancellation; checked once per expansion.
	Ctx context.Context

	// Heuristic prices edges and estimates remaining cost. Default Octile.
	Heuristic Heuristic

	// OnExpand is called each time a node is moved to the closed set.
	OnExpand func(id string, gCost, hCost float64)

	err error
}

// Option configures FindPath via functional arguments.
// Invalid options are recorded and surfaced as ErrOptionViolation.
type Option func(*Options)

// DefaultOptions returns Options with a background context, the Octile
// heuristic and a no-op OnExpand hook.
func DefaultOptions() Options {
	return Options{
		Ctx:       context.Background(),
		Heuristic: Octile,
		OnExpand:  func(string, float64, float64) {},
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithHeuristic replaces the default Octile heuristic. nil is an option violation.
func WithHeuristic(h Heuristic) Option {
	return func(o *Options) {
		if h == nil {
			o.err = fmt.Errorf("%w: heuristic is nil", ErrOptionViolation)
			return
		}
		o.Heuristic = h
	}
}

// WithOnExpand registers a hook run when a node is finalized.
func WithOnExpand(fn func(id string, gCost, hCost float64)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnExpand = fn
		}
	}
}

// Path is the ordered result of a successful search.
type Path struct {
	// Nodes runs start → target inclusive.
	Nodes []string

	// Cost is the g-cost of the target: the sum of edge heuristics and node costs.
	Cost float64

	// Radius is the adjacency radius the graph was built with.
	Radius float64

	// Expanded counts nodes moved to the closed set.
	Expanded int
}

// Len returns the number of nodes on the path.
func (p *Path) Len() int {
	if p == nil {
		return 0
	}

	return len(p.Nodes)
}

// First returns the start node ID, or "" for an empty path.
func (p *Path) First() string {
	if p.Len() == 0 {
		return ""
	}

	return p.Nodes[0]
}

// Last returns the target node ID, or "" for an empty path.
func (p *Path) Last() string {
	if p.Len() == 0 {
		return ""
	}

	return p.Nodes[len(p.Nodes)-1]
}

// Index returns the position of id on the path, or -1.
func (p *Path) Index(id string) int {
	if p == nil {
		return -1
	}
	for i, cur := range p.Nodes {
		if cur == id {
			return i
		}
	}

	return -1
}

// Contains reports whether id is on the path.
func (p *Path) Contains(id string) bool { return p.Index(id) >= 0 }

// Next returns the successor of id on the path.
func (p *Path) Next(id string) (string, bool) {
	i := p.Index(id)
	if i < 0 || i+1 >= len(p.Nodes) {
		return "", false
	}

	return p.Nodes[i+1], true
}

// Prev returns the predecessor of id on the path.
func (p *Path) Prev(id string) (string, bool) {
	i := p.Index(id)
	if i <= 0 {
		return "", false
	}

	return p.Nodes[i-1], true
}
