// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Node, Position and Graph declarations, sentinel errors, constructor.
// Policy:
//   - Nodes are plain records. Adjacency and search scratch never live on a Node.
//   - Adjacency is derived data owned by Graph and is discarded on every node-set change.

package core

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrNilNode indicates a nil *Node was passed to the graph.
	ErrNilNode = errors.New("core: node is nil")

	// ErrEmptyNodeID indicates that the provided Node has an empty ID.
	ErrEmptyNodeID = errors.New("core: node ID is empty")

	// ErrDuplicateNode indicates a node with the same ID is already present.
	ErrDuplicateNode = errors.New("core: duplicate node ID")

	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrNegativeCost indicates a node was given a negative traversal cost.
	ErrNegativeCost = errors.New("core: node cost must be non-negative")

	// ErrEmptyGraph indicates a query that needs at least one node ran on an empty graph.
	ErrEmptyGraph = errors.New("core: graph has no nodes")
)

// Position is a point in 3D world space.
type Position struct {
	X, Y, Z float64
}

// Pos is shorthand for Position{X: x, Y: y, Z: z}.
func Pos(x, y, z float64) Position { return Position{X: x, Y: y, Z: z} }

// Sub returns p - q.
func (p Position) Sub(q Position) Position {
	return Position{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Length returns the Euclidean norm of p.
func (p Position) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// String renders p as "(x, y, z)".
func (p Position) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Position) float64 {
	return a.Sub(b).Length()
}

// NodeType tags a node as a pass-through waypoint or a navigable destination.
// The numeric values are stable: they are the raw integers used by persisted node lists.
type NodeType int

const (
	// Waypoint is a pass-through node.
	Waypoint NodeType = iota

	// Endpoint is a valid navigation destination.
	Endpoint
)

// Valid reports whether t is one of the declared node types.
func (t NodeType) Valid() bool { return t == Waypoint || t == Endpoint }

// String returns "WAYPOINT", "ENDPOINT" or "NodeType(n)".
func (t NodeType) String() string {
	switch t {
	case Waypoint:
		return "WAYPOINT"
	case Endpoint:
		return "ENDPOINT"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// DefaultNodeName is the display name given to nodes that were never named.
const DefaultNodeName = "node"

// Node is a positioned point of interest in the navigation graph.
//
// Node carries no neighbor list, successor pointer or search scratch;
// those belong to Graph, the path finder and the navigation session respectively.
type Node struct {
	// ID uniquely identifies the node within its Graph.
	ID string

	// Position is the world-space location of the node.
	Position Position

	// Type is Waypoint or Endpoint.
	Type NodeType

	// Name is the display name shown by selection UIs.
	Name string

	// Cost is the static traversal weight added when a path enters this node.
	Cost float64
}

// IsEndpoint reports whether n is a navigable destination.
func (n *Node) IsEndpoint() bool { return n != nil && n.Type == Endpoint }

// String returns a short human-readable description of n.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Name != "" {
		return fmt.Sprintf("%s[%s %q %s]", n.ID, n.Type, n.Name, n.Position)
	}

	return fmt.Sprintf("%s[%s %s]", n.ID, n.Type, n.Position)
}

// Graph is an unordered node set plus the proximity adjacency derived from it.
//
// Insertion order is remembered and used wherever a deterministic
// enumeration or first-seen tie break is required.
// mu guards every field; readers take the read lock.
type Graph struct {
	mu sync.RWMutex

	order []string         // node IDs in insertion order
	nodes map[string]*Node // node ID → Node

	// adjacency[id] lists neighbor IDs in insertion order.
	// nil when the graph has not been built since the last node-set change.
	adjacency map[string][]string
	radius    float64
}

// NewGraph creates a graph holding the given nodes in order.
// Returns the first error produced by AddNode.
// Complexity: O(n).
func NewGraph(nodes ...*Node) (*Graph, error) {
	g := &Graph{nodes: make(map[string]*Node, len(nodes))}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}

	return g, nil
}
