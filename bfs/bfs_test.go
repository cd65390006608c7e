package bfs_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/katalvlaran/waypath/bfs"
	"github.com/katalvlaran/waypath/core"
)

// chain builds n nodes one unit apart on the X axis: N0 … N(n-1).
func chain(t *testing.T, n int) *core.Graph {
	t.Helper()
	g, _ := core.NewGraph()
	for i := 0; i < n; i++ {
		if err := g.AddNode(&core.Node{ID: fmt.Sprintf("N%d", i), Position: core.Pos(float64(i), 0, 0)}); err != nil {
			t.Fatal(err)
		}
	}
	g.BuildAdjacency(1.5)

	return g
}

// TestBFS_Errors verifies that invalid inputs and options are rejected.
func TestBFS_Errors(t *testing.T) {
	if _, err := bfs.BFS(nil, "A"); !errors.Is(err, bfs.ErrGraphNil) {
		t.Errorf("nil graph: want ErrGraphNil, got %v", err)
	}
	g := chain(t, 2)
	if _, err := bfs.BFS(g, "missing"); !errors.Is(err, bfs.ErrStartNodeNotFound) {
		t.Errorf("missing start: want ErrStartNodeNotFound, got %v", err)
	}
	if _, err := bfs.BFS(g, "N0", bfs.WithMaxDepth(-1)); !errors.Is(err, bfs.ErrOptionViolation) {
		t.Errorf("negative depth: want ErrOptionViolation, got %v", err)
	}
	_ = g.AddNode(&core.Node{ID: "late"})
	if _, err := bfs.BFS(g, "N0"); !errors.Is(err, bfs.ErrGraphNotBuilt) {
		t.Errorf("stale graph: want ErrGraphNotBuilt, got %v", err)
	}
}

// TestBFS_ChainDepths walks a chain and checks order, depth and paths.
func TestBFS_ChainDepths(t *testing.T) {
	g := chain(t, 4)
	res, err := bfs.BFS(g, "N0")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"N0", "N1", "N2", "N3"}; !reflect.DeepEqual(res.Order, want) {
		t.Errorf("Order = %v; want %v", res.Order, want)
	}
	if d := res.Depth["N3"]; d != 3 {
		t.Errorf("Depth[N3] = %d; want 3", d)
	}
	path, err := res.PathTo("N2")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"N0", "N1", "N2"}; !reflect.DeepEqual(path, want) {
		t.Errorf("PathTo(N2) = %v; want %v", path, want)
	}
}

// TestBFS_Disconnected ensures BFS only explores the component of the start node.
func TestBFS_Disconnected(t *testing.T) {
	g := chain(t, 2)
	_ = g.AddNode(&core.Node{ID: "far", Position: core.Pos(100, 0, 0)})
	g.BuildAdjacency(1.5)

	res, _ := bfs.BFS(g, "N0")
	if res.Reached("far") {
		t.Error("far node should be unreachable")
	}
	if _, err := res.PathTo("far"); err == nil {
		t.Error("PathTo(far) should fail")
	}
	n, err := bfs.Reachable(g, "N0")
	if err != nil || n != 2 {
		t.Errorf("Reachable = %d, %v; want 2, nil", n, err)
	}
}

// TestBFS_MaxDepthAndFilter verifies depth limiting and neighbor filtering.
func TestBFS_MaxDepthAndFilter(t *testing.T) {
	g := chain(t, 4)
	if res, _ := bfs.BFS(g, "N0", bfs.WithMaxDepth(1)); !reflect.DeepEqual(res.Order, []string{"N0", "N1"}) {
		t.Errorf("MaxDepth=1: got %v", res.Order)
	}
	res, _ := bfs.BFS(g, "N0", bfs.WithFilterNeighbor(func(curr, nbr string) bool {
		return !(curr == "N1" && nbr == "N2")
	}))
	if want := []string{"N0", "N1"}; !reflect.DeepEqual(res.Order, want) {
		t.Errorf("filter: got %v; want %v", res.Order, want)
	}
}

// TestBFS_HooksAndCancel checks OnVisit error propagation and context cancellation.
func TestBFS_HooksAndCancel(t *testing.T) {
	g := chain(t, 3)
	stop := errors.New("stop")
	_, err := bfs.BFS(g, "N0", bfs.WithOnVisit(func(id string, _ int) error {
		if id == "N1" {
			return stop
		}
		return nil
	}))
	if !errors.Is(err, stop) {
		t.Errorf("OnVisit: want stop, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := bfs.BFS(g, "N0", bfs.WithContext(ctx)); !errors.Is(err, context.Canceled) {
		t.Errorf("cancel: want context.Canceled, got %v", err)
	}
}
