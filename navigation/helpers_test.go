package navigation_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/navigation"
	"github.com/katalvlaran/waypath/registry"
	"github.com/stretchr/testify/require"
)

// recorder is an Activator and Observer that logs every call as a string.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) Activate(n, facing *core.Node) {
	if facing == nil {
		r.add("on %s", n.ID)
		return
	}
	r.add("on %s→%s", n.ID, facing.ID)
}

func (r *recorder) Deactivate(n *core.Node) { r.add("off %s", n.ID) }

func (r *recorder) OnTargetChanged(t *core.Node) { r.add("target %s", t.ID) }

func (r *recorder) OnActiveChanged(n *core.Node) { r.add("active %s", n.ID) }

func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

// fixture wires a graph, a registry and a session together.
type fixture struct {
	graph   *core.Graph
	targets *registry.Registry
	session *navigation.Session
	rec     *recorder
}

func newFixture(t *testing.T, pos core.Position, nodes []*core.Node, opts ...navigation.Option) *fixture {
	t.Helper()
	g, err := core.NewGraph(nodes...)
	require.NoError(t, err)
	reg := registry.New()
	for _, n := range nodes {
		_, err := reg.Register(n)
		require.NoError(t, err)
	}
	rec := &recorder{}
	opts = append([]navigation.Option{navigation.WithActivator(rec)}, opts...)
	s, err := navigation.New(g, reg, navigation.FixedPosition(pos), opts...)
	require.NoError(t, err)

	return &fixture{graph: g, targets: reg, session: s, rec: rec}
}

func (f *fixture) node(t *testing.T, id string) *core.Node {
	t.Helper()
	n, ok := f.graph.Node(id)
	require.True(t, ok, id)
	return n
}

// lineNodes returns A(0,0,0), B(1,0,0) waypoints and C(2,0,0) "Exit" endpoint.
func lineNodes() []*core.Node {
	return []*core.Node{
		{ID: "A", Position: core.Pos(0, 0, 0)},
		{ID: "B", Position: core.Pos(1, 0, 0)},
		{ID: "C", Position: core.Pos(2, 0, 0), Type: core.Endpoint, Name: "Exit"},
	}
}

// forkNodes extends the line with a branch from A towards a second endpoint.
//
//	    L(0,0,2) "Lab"
//	     │
//	    D(0,0,1)
//	     │
//	A ── B ── C "Exit"
func forkNodes() []*core.Node {
	return append(lineNodes(),
		&core.Node{ID: "D", Position: core.Pos(0, 0, 1)},
		&core.Node{ID: "L", Position: core.Pos(0, 0, 2), Type: core.Endpoint, Name: "Lab"},
	)
}

func cfg(initial, step, max float64, attempts int) navigation.Option {
	return navigation.WithConfig(navigation.Config{
		InitialRadius: initial,
		RadiusStep:    step,
		MaxRadius:     max,
		MaxAttempts:   attempts,
	})
}
