package astar_test

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/waypath/astar"
	"github.com/katalvlaran/waypath/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGraph creates a graph from nodes and builds adjacency at radius.
func buildGraph(t *testing.T, radius float64, nodes ...*core.Node) *core.Graph {
	t.Helper()
	g, err := core.NewGraph(nodes...)
	require.NoError(t, err)
	g.BuildAdjacency(radius)

	return g
}

// lineNodes returns A(0,0,0), B(1,0,0), C(2,0,0)[ENDPOINT "Exit"].
func lineNodes() []*core.Node {
	return []*core.Node{
		{ID: "A", Position: core.Pos(0, 0, 0)},
		{ID: "B", Position: core.Pos(1, 0, 0)},
		{ID: "C", Position: core.Pos(2, 0, 0), Type: core.Endpoint, Name: "Exit"},
	}
}

// pathCost prices a node sequence the way FindPath does.
func pathCost(g *core.Graph, h astar.Heuristic, ids []string) float64 {
	total := 0.0
	for i := 1; i < len(ids); i++ {
		u, _ := g.Node(ids[i-1])
		v, _ := g.Node(ids[i])
		total += h(u.Position, v.Position) + v.Cost
	}

	return total
}

// exhaustiveBest enumerates every simple path breadth-first and returns the
// cheapest cost, or +Inf when target is unreachable.
func exhaustiveBest(g *core.Graph, h astar.Heuristic, start, target string) float64 {
	best := math.Inf(1)
	queue := [][]string{{start}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		last := p[len(p)-1]
		if last == target {
			best = math.Min(best, pathCost(g, h, p))
			continue
		}
		nbrs, _ := g.Neighbors(last)
	next:
		for _, n := range nbrs {
			for _, seen := range p {
				if seen == n {
					continue next
				}
			}
			ext := append(append([]string(nil), p...), n)
			queue = append(queue, ext)
		}
	}

	return best
}

func TestFindPath_Errors(t *testing.T) {
	_, err := astar.FindPath(nil, "A", "C")
	assert.ErrorIs(t, err, astar.ErrNilGraph)

	g := buildGraph(t, 1.5, lineNodes()...)
	_, err = astar.FindPath(g, "missing", "C")
	assert.ErrorIs(t, err, astar.ErrStartNotFound)
	_, err = astar.FindPath(g, "A", "missing")
	assert.ErrorIs(t, err, astar.ErrTargetNotFound)
	_, err = astar.FindPath(g, "A", "C", astar.WithHeuristic(nil))
	assert.ErrorIs(t, err, astar.ErrOptionViolation)

	require.NoError(t, g.AddNode(&core.Node{ID: "D", Position: core.Pos(3, 0, 0)}))
	_, err = astar.FindPath(g, "A", "C")
	assert.ErrorIs(t, err, astar.ErrGraphNotBuilt)
}

func TestFindPath_Line(t *testing.T) {
	g := buildGraph(t, 1.5, lineNodes()...)

	p, err := astar.FindPath(g, "A", "C")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, p.Nodes)
	assert.Equal(t, 20.0, p.Cost) // two orthogonal unit steps at 10 each
	assert.Equal(t, 1.5, p.Radius)
	assert.Equal(t, "A", p.First())
	assert.Equal(t, "C", p.Last())

	next, ok := p.Next("B")
	assert.True(t, ok)
	assert.Equal(t, "C", next)
	_, ok = p.Next("C")
	assert.False(t, ok)
	prev, ok := p.Prev("C")
	assert.True(t, ok)
	assert.Equal(t, "B", prev)
	_, ok = p.Prev("A")
	assert.False(t, ok)
	assert.False(t, p.Contains("Z"))
}

func TestFindPath_NotFoundWithoutEdges(t *testing.T) {
	g := buildGraph(t, 0.5, lineNodes()...)
	_, err := astar.FindPath(g, "A", "C")
	assert.ErrorIs(t, err, astar.ErrNotFound)
}

func TestFindPath_StartIsTarget(t *testing.T) {
	g := buildGraph(t, 0.5, lineNodes()...)
	p, err := astar.FindPath(g, "B", "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, p.Nodes)
	assert.Zero(t, p.Cost)
	assert.Equal(t, 1, p.Expanded)
}

// TestFindPath_NodeCostDetour puts an expensive node on the straight route;
// the search must prefer the longer but cheaper detour.
//
//	S ── M ── T       (M costs 100)
//	 \         /
//	  U ── V ─┘
func TestFindPath_NodeCostDetour(t *testing.T) {
	g := buildGraph(t, 1.5,
		&core.Node{ID: "S", Position: core.Pos(0, 0, 0)},
		&core.Node{ID: "M", Position: core.Pos(1, 0, 0), Cost: 100},
		&core.Node{ID: "T", Position: core.Pos(2, 0, 0)},
		&core.Node{ID: "U", Position: core.Pos(0.5, 0, 1)},
		&core.Node{ID: "V", Position: core.Pos(1.5, 0, 1)},
	)

	p, err := astar.FindPath(g, "S", "T")
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "U", "V", "T"}, p.Nodes)

	noCost := buildGraph(t, 1.5,
		&core.Node{ID: "S", Position: core.Pos(0, 0, 0)},
		&core.Node{ID: "M", Position: core.Pos(1, 0, 0)},
		&core.Node{ID: "T", Position: core.Pos(2, 0, 0)},
		&core.Node{ID: "U", Position: core.Pos(0.5, 0, 1)},
		&core.Node{ID: "V", Position: core.Pos(1.5, 0, 1)},
	)
	p, err = astar.FindPath(noCost, "S", "T")
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "M", "T"}, p.Nodes)
}

// randomCloud scatters n nodes on the ground plane with small random costs.
func randomCloud(r *rand.Rand, n int) []*core.Node {
	nodes := make([]*core.Node, n)
	for i := range nodes {
		nodes[i] = &core.Node{
			ID:       fmt.Sprintf("N%d", i),
			Position: core.Pos(r.Float64()*4, 0, r.Float64()*4),
			Cost:     float64(r.Intn(3)),
		}
	}

	return nodes
}

// TestFindPath_OptimalAgainstExhaustive compares A* with exhaustive enumeration
// and checks retrace correctness on every success.
func TestFindPath_OptimalAgainstExhaustive(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	heuristics := map[string]astar.Heuristic{
		"octile":    astar.Octile,
		"euclidean": astar.Euclidean,
		"zero":      astar.Zero,
	}
	for name, h := range heuristics {
		for round := 0; round < 40; round++ {
			radius := 1 + r.Float64()*1.5
			g := buildGraph(t, radius, randomCloud(r, 8)...)
			start, target := "N0", fmt.Sprintf("N%d", 1+r.Intn(7))

			want := exhaustiveBest(g, h, start, target)
			p, err := astar.FindPath(g, start, target, astar.WithHeuristic(h))
			if math.IsInf(want, 1) {
				assert.ErrorIs(t, err, astar.ErrNotFound, "%s round %d", name, round)
				continue
			}
			require.NoError(t, err, "%s round %d", name, round)
			assert.InDelta(t, want, p.Cost, 1e-9, "%s round %d", name, round)
			assert.InDelta(t, pathCost(g, h, p.Nodes), p.Cost, 1e-9)

			assert.Equal(t, start, p.First())
			assert.Equal(t, target, p.Last())
			for i := 1; i < len(p.Nodes); i++ {
				assert.True(t, g.Adjacent(p.Nodes[i-1], p.Nodes[i]),
					"%s round %d: %s→%s not adjacent", name, round, p.Nodes[i-1], p.Nodes[i])
			}
		}
	}
}

func TestFindPath_Deterministic(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	// a regular grid has many equal-cost routes, so tie breaking matters
	var nodes []*core.Node
	for x := 0; x < 5; x++ {
		for z := 0; z < 5; z++ {
			nodes = append(nodes, &core.Node{ID: fmt.Sprintf("%d_%d", x, z), Position: core.Pos(float64(x), 0, float64(z))})
		}
	}
	r.Shuffle(len(nodes), func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })
	g := buildGraph(t, 1.5, nodes...)

	first, err := astar.FindPath(g, "0_0", "4_4")
	require.NoError(t, err)
	assert.Equal(t, 4*14.0, first.Cost)
	for i := 0; i < 10; i++ {
		again, err := astar.FindPath(g, "0_0", "4_4")
		require.NoError(t, err)
		assert.Equal(t, first.Nodes, again.Nodes)
	}
}

func TestFindPath_HooksAndCancel(t *testing.T) {
	g := buildGraph(t, 1.5, lineNodes()...)

	var order []string
	p, err := astar.FindPath(g, "A", "C", astar.WithOnExpand(func(id string, _, _ float64) {
		order = append(order, id)
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, order)
	assert.Equal(t, len(order), p.Expanded)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = astar.FindPath(g, "A", "C", astar.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHeuristics(t *testing.T) {
	a := core.Pos(0, 5, 0)
	b := core.Pos(3, -2, 1)

	// dx=3, dz=1 → 14·1 + 10·2
	assert.Equal(t, 34.0, astar.Octile(a, b))
	assert.Equal(t, astar.Octile(a, b), astar.Octile(b, a))
	assert.Zero(t, astar.Octile(core.Pos(1, 0, 1), core.Pos(1, 9, 1)))
	assert.InDelta(t, math.Sqrt(9+49+1), astar.Euclidean(a, b), 1e-12)
	assert.Zero(t, astar.Zero(a, b))

	var nilPath *astar.Path
	assert.Zero(t, nilPath.Len())
	assert.Equal(t, -1, nilPath.Index("A"))
	assert.Empty(t, nilPath.First())
}
