// Package waypath is a waypoint navigation engine: it plans routes over a
// set of positioned nodes and guides an agent along them one stop at a time.
//
// Nodes carry no explicit edges. Two nodes are adjacent when they lie closer
// than a search radius, and the radius is widened step by step until a route
// exists or the configured bounds run out.
//
// Packages:
//
//	core/        - Node, Position, Graph: node set, closest-node lookup, radius adjacency
//	astar/       - A* path finder over a built adjacency (octile heuristic by default)
//	bfs/         - hop-count traversal, used for reachability diagnostics
//	registry/    - ordered endpoint list, selection by index or display name
//	navigation/  - Session: radius escalation, tour state machine, trigger events
//	nodelist/    - JSON node list persistence and ID schemes
//	config/      - YAML configuration with ${VAR} expansion and .env loading
//	cmd/waypath/ - command line front end (targets, route, walk)
//
// A minimal session:
//
//	g, _ := core.NewGraph(nodes...)
//	reg := registry.New()
//	for _, n := range nodes {
//		reg.Register(n)
//	}
//	s, _ := navigation.New(g, reg, navigation.FixedPosition(agent))
//	_ = s.NavigateToSelector(ctx, "Exit")
//	// on every proximity event:
//	s.OnTriggerEvent(node)
package waypath
