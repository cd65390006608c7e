// Package navigation turns a shortest path into a guided tour.
//
// A Session owns the tour state machine:
//
//	INCOMPLETE ──StartNavigation / NavigateToTarget (path found)──▶ COMPLETED
//	COMPLETED  ──NavigateToTarget / StartNavigation(other target) / Reset──▶ INCOMPLETE
//
// While COMPLETED, trigger events for the active node advance the active
// pointer one step along the path. Trigger events in any other situation are
// dropped.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/katalvlaran/waypath/astar"
	"github.com/katalvlaran/waypath/bfs"
	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/registry"
)

// Session guides one agent through the node graph.
//
// Locking:
//   - runMu serializes adjacency rebuild + search, so no rebuild overlaps a search.
//   - opMu is held across every state transition and the side effects it
//     produces (activator calls, observer callbacks), so effects are delivered
//     in transition order.
//   - mu guards the fields below; read accessors take only mu and are safe to
//     call from observer callbacks.
type Session struct {
	graph     *core.Graph
	targets   *registry.Registry
	position  PositionProvider
	cfg       Config
	activator Activator
	logger    *slog.Logger
	metrics   *Metrics
	heuristic astar.Heuristic

	runMu sync.Mutex
	opMu  sync.Mutex

	mu        sync.Mutex
	status    Status
	path      *astar.Path
	target    *core.Node
	active    string
	lit       []*core.Node // activated since the last sweep, in activation order
	radius    float64
	gen       uint64 // bumped by every request and Reset
	cancel    context.CancelFunc
	observers []subscription
	nextSub   int
}

type subscription struct {
	id int
	o  Observer
}

// New creates a session over graph, resolving selectors through targets and
// reading the agent position from position.
func New(graph *core.Graph, targets *registry.Registry, position PositionProvider, opts ...Option) (*Session, error) {
	if graph == nil || targets == nil || position == nil {
		return nil, ErrNilDependency
	}
	s := &Session{
		graph:     graph,
		targets:   targets,
		position:  position,
		cfg:       DefaultConfig(),
		activator: NopActivator{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		heuristic: astar.Octile,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// StartNavigation computes a path from the node closest to pos to target and
// activates its first node.
//
// It is a no-op when the session is already COMPLETED for the same target.
// Otherwise any previous tour is discarded (its lit nodes are deactivated) and
// the radius escalation loop runs. On hard failure the session stays
// INCOMPLETE and the error wraps ErrEmptyNodeSet or ErrNavigationFailed.
// A call replaced by a newer request before finishing returns ErrSuperseded.
func (s *Session) StartNavigation(ctx context.Context, pos core.Position, target *core.Node) error {
	if err := s.checkTarget(target); err != nil {
		return err
	}

	s.opMu.Lock()
	s.mu.Lock()
	if s.status == Completed && s.target != nil && s.target.ID == target.ID {
		s.mu.Unlock()
		s.opMu.Unlock()
		s.metrics.request(resultNoop)

		return nil
	}
	runCtx, gen, fx := s.beginLocked(ctx, target)
	s.mu.Unlock()
	run(fx)
	s.opMu.Unlock()

	return s.navigate(runCtx, gen, pos, target)
}

// NavigateToTarget resets the session to INCOMPLETE, deactivates every node
// lit by the previous tour, reads the agent position once and starts
// navigation to target. It may be called at any time, including mid-tour or
// while an earlier request is still searching; the earlier request is
// cancelled and returns ErrSuperseded.
func (s *Session) NavigateToTarget(ctx context.Context, target *core.Node) error {
	if err := s.checkTarget(target); err != nil {
		return err
	}

	s.opMu.Lock()
	s.mu.Lock()
	runCtx, gen, fx := s.beginLocked(ctx, target)
	s.mu.Unlock()
	run(fx)
	s.opMu.Unlock()

	return s.navigate(runCtx, gen, s.position.Position(), target)
}

// NavigateToSelector resolves selector (endpoint index or name) through the
// registry and navigates to it. An unresolved selector changes nothing.
func (s *Session) NavigateToSelector(ctx context.Context, selector string) error {
	target, err := s.targets.Resolve(selector)
	if err != nil {
		return err
	}

	return s.NavigateToTarget(ctx, target)
}

// OnTriggerEvent reports that the agent entered the proximity volume of node.
// See Trigger.
func (s *Session) OnTriggerEvent(node *core.Node) bool {
	if node == nil {
		s.metrics.trigger(false)
		return false
	}

	return s.Trigger(node.ID)
}

// Trigger advances the tour when id is the active node and has a successor:
// the successor becomes active. It returns whether the tour advanced.
//
// Events before COMPLETED (including during a search), for nodes off the
// path, for nodes other than the active one, or for the last node are
// ignored. The active pointer therefore only ever moves one step forward.
func (s *Session) Trigger(id string) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.status != Completed || id != s.active {
		s.mu.Unlock()
		s.metrics.trigger(false)

		return false
	}
	next, ok := s.path.Next(id)
	if !ok {
		s.mu.Unlock()
		s.metrics.trigger(false)

		return false
	}
	fx := s.activateLocked(next)
	s.mu.Unlock()
	run(fx)
	s.metrics.trigger(true)
	s.logger.Debug("advanced", "from", id, "to", next)

	return true
}

// Reset discards all tour state, cancels any pending request and deactivates
// lit nodes. Call it when the node set is cleared or replaced.
func (s *Session) Reset() {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	fx := s.sweepLocked()
	s.status = Incomplete
	s.path = nil
	s.target = nil
	s.active = ""
	s.radius = 0
	s.mu.Unlock()
	run(fx)
}

// Subscribe registers o and returns a function that removes it.
func (s *Session) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.observers = append(s.observers, subscription{id: id, o: o})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Status returns the current session state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// Path returns a copy of the installed path, or nil when INCOMPLETE.
func (s *Session) Path() *astar.Path {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == nil {
		return nil
	}
	cp := *s.path
	cp.Nodes = append([]string(nil), s.path.Nodes...)

	return &cp
}

// Active returns the active node.
func (s *Session) Active() (*core.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == "" {
		return nil, false
	}

	return s.graph.Node(s.active)
}

// Target returns the requested target, or nil.
func (s *Session) Target() *core.Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.target
}

// Radius returns the adjacency radius of the installed path, or 0.
func (s *Session) Radius() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.radius
}

// Config returns the escalation bounds in use.
func (s *Session) Config() Config { return s.cfg }

// Facing returns the node the marker of id should turn towards: the path
// predecessor for an ENDPOINT that has one, otherwise the path successor.
// It returns nil when id is off the path or has no such neighbor.
func (s *Session) Facing(id string) *core.Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.facingLocked(id)
}

// Bearing returns the horizontal heading, in degrees, from pos to the active
// node: 0 along +Z, 90 along +X, in (-180, 180]. ok is false with no active node.
func (s *Session) Bearing(pos core.Position) (deg float64, ok bool) {
	n, ok := s.Active()
	if !ok {
		return 0, false
	}
	d := n.Position.Sub(pos)

	return math.Atan2(d.X, d.Z) * 180 / math.Pi, true
}

func (s *Session) checkTarget(target *core.Node) error {
	if target == nil {
		return ErrNilTarget
	}
	if s.graph.Len() == 0 {
		return ErrEmptyNodeSet
	}
	if !s.graph.HasNode(target.ID) {
		return fmt.Errorf("%w: %q", ErrTargetNotInGraph, target.ID)
	}

	return nil
}

// beginLocked supersedes any pending request and clears tour state for a new
// request to target. Caller holds opMu and mu.
func (s *Session) beginLocked(ctx context.Context, target *core.Node) (context.Context, uint64, []func()) {
	s.gen++
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	fx := s.sweepLocked()
	prev := s.target
	s.status = Incomplete
	s.path = nil
	s.active = ""
	s.radius = 0
	s.target = target
	if prev == nil || prev.ID != target.ID {
		obs := s.snapshotLocked()
		fx = append(fx, func() {
			for _, o := range obs {
				o.OnTargetChanged(target)
			}
		})
	}

	return runCtx, s.gen, fx
}

// navigate runs the search and installs its result unless superseded.
func (s *Session) navigate(ctx context.Context, gen uint64, pos core.Position, target *core.Node) error {
	started := time.Now()
	path, err := s.plan(ctx, pos, target)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.metrics.request(resultSuperseded)
		s.logger.Debug("discarding superseded result", "target", target.ID)

		return fmt.Errorf("%w: target %q", ErrSuperseded, target.ID)
	}
	s.cancel()
	s.cancel = nil
	if err != nil {
		s.mu.Unlock()
		s.metrics.observeSearch(time.Since(started), 0)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.metrics.request(resultCancelled)
		} else {
			s.metrics.request(resultFailed)
		}

		return err
	}

	s.path = path
	s.radius = path.Radius
	s.status = Completed
	fx := s.activateLocked(path.First())
	s.mu.Unlock()
	run(fx)
	s.metrics.observeSearch(time.Since(started), path.Len())
	s.metrics.request(resultSuccess)

	return nil
}

// plan resolves the start node and runs the bounded radius escalation loop.
func (s *Session) plan(ctx context.Context, pos core.Position, target *core.Node) (*astar.Path, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start, err := s.graph.ClosestNode(pos)
	if err != nil {
		if errors.Is(err, core.ErrEmptyGraph) {
			return nil, ErrEmptyNodeSet
		}
		return nil, err
	}
	log := s.logger.With("start", start.ID, "target", target.ID)

	radii := s.cfg.Radii()
	last := 0.0
	for k, radius := range radii {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.graph.BuildAdjacency(radius)
		last = radius

		path, err := astar.FindPath(s.graph, start.ID, target.ID,
			astar.WithContext(ctx),
			astar.WithHeuristic(s.heuristic),
		)
		if err == nil {
			s.metrics.attempt(false)
			log.Info("path found", "radius", radius, "attempt", k+1, "nodes", path.Len(), "cost", path.Cost)
			return path, nil
		}
		if !errors.Is(err, astar.ErrNotFound) {
			s.metrics.attempt(false)
			return nil, err
		}
		s.metrics.attempt(k+1 < len(radii))
		log.Debug("no path, widening radius", "radius", radius, "attempt", k+1)
	}

	reachable, _ := bfs.Reachable(s.graph, start.ID)
	log.Warn("navigation failed", "attempts", len(radii), "last_radius", last, "reachable", reachable, "nodes", s.graph.Len())

	return nil, fmt.Errorf("%w: %q unreachable from %q after %d attempts (last radius %g, %d of %d nodes reachable): %w",
		ErrNavigationFailed, target.ID, start.ID, len(radii), last, reachable, s.graph.Len(), astar.ErrNotFound)
}

// activateLocked makes id the active node and returns the effects that show it.
func (s *Session) activateLocked(id string) []func() {
	node, ok := s.graph.Node(id)
	if !ok {
		return nil
	}
	s.active = id
	s.lit = append(s.lit, node)
	facing := s.facingLocked(id)
	obs := s.snapshotLocked()
	act := s.activator

	return []func(){func() {
		act.Activate(node, facing)
		for _, o := range obs {
			o.OnActiveChanged(node)
		}
	}}
}

// sweepLocked forgets every lit node and returns the effects that hide them.
func (s *Session) sweepLocked() []func() {
	if len(s.lit) == 0 {
		return nil
	}
	lit := s.lit
	s.lit = nil
	act := s.activator

	return []func(){func() {
		for _, n := range lit {
			act.Deactivate(n)
		}
	}}
}

func (s *Session) facingLocked(id string) *core.Node {
	if s.path == nil {
		return nil
	}
	node, ok := s.graph.Node(id)
	if !ok {
		return nil
	}
	if node.IsEndpoint() {
		if prev, ok := s.path.Prev(id); ok {
			n, _ := s.graph.Node(prev)
			return n
		}
	}
	if next, ok := s.path.Next(id); ok {
		n, _ := s.graph.Node(next)
		return n
	}

	return nil
}

func (s *Session) snapshotLocked() []Observer {
	out := make([]Observer, len(s.observers))
	for i, sub := range s.observers {
		out[i] = sub.o
	}

	return out
}

func run(fx []func()) {
	for _, f := range fx {
		f()
	}
}
