// Package navigation defines the session state, configuration, collaborator
// interfaces and sentinel errors of the guided-tour engine.
package navigation

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/waypath/astar"
	"github.com/katalvlaran/waypath/core"
)

// Sentinel errors returned by Session.
var (
	// ErrNilDependency indicates New was called without a graph, registry or position provider.
	ErrNilDependency = errors.New("navigation: required dependency is nil")

	// ErrNilTarget indicates a nil target node.
	ErrNilTarget = errors.New("navigation: target is nil")

	// ErrTargetNotInGraph indicates the target node is not part of the session graph.
	ErrTargetNotInGraph = errors.New("navigation: target is not in the node graph")

	// ErrEmptyNodeSet indicates there is no node to start from.
	ErrEmptyNodeSet = errors.New("navigation: node set is empty")

	// ErrNavigationFailed indicates the radius escalation bound was exhausted
	// without finding a path. It wraps astar.ErrNotFound.
	ErrNavigationFailed = errors.New("navigation: no path within escalation bound")

	// ErrSuperseded indicates a pending navigation was replaced by a newer one
	// before it completed; its result was discarded.
	ErrSuperseded = errors.New("navigation: superseded by a newer request")

	// ErrBadConfig indicates an invalid Config.
	ErrBadConfig = errors.New("navigation: invalid config")
)

// Status is the session state.
type Status int

const (
	// Incomplete means no usable path: never started, recomputing, failed or reset.
	Incomplete Status = iota

	// Completed means a path is installed and its first node was activated.
	Completed
)

// String returns "INCOMPLETE" or "COMPLETED".
func (s Status) String() string {
	if s == Completed {
		return "COMPLETED"
	}

	return "INCOMPLETE"
}

// Config bounds the radius escalation loop.
//
// Attempt k (0-based) builds adjacency at InitialRadius + k·RadiusStep.
// The loop stops after MaxAttempts attempts or once the next radius would
// exceed MaxRadius (when MaxRadius > 0), whichever comes first.
type Config struct {
	InitialRadius float64 `yaml:"initial_radius"`
	RadiusStep    float64 `yaml:"radius_step"`
	MaxRadius     float64 `yaml:"max_radius"`
	MaxAttempts   int     `yaml:"max_attempts"`
}

// Default escalation: start at 1.1 world units (about one stride) and widen
// by 0.1 per failed attempt.
const (
	DefaultInitialRadius = 1.1
	DefaultRadiusStep    = 0.1
	DefaultMaxAttempts   = 64
)

// radiusEpsilon absorbs float drift when comparing a computed radius to MaxRadius.
const radiusEpsilon = 1e-9

// DefaultConfig returns the default escalation bounds.
func DefaultConfig() Config {
	return Config{
		InitialRadius: DefaultInitialRadius,
		RadiusStep:    DefaultRadiusStep,
		MaxAttempts:   DefaultMaxAttempts,
	}
}

// SetDefaults fills zero fields with defaults.
func (c *Config) SetDefaults() {
	if c.InitialRadius == 0 {
		c.InitialRadius = DefaultInitialRadius
	}
	if c.RadiusStep == 0 {
		c.RadiusStep = DefaultRadiusStep
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
}

// Validate checks that the escalation loop is strictly increasing and bounded.
func (c Config) Validate() error {
	switch {
	case !(c.InitialRadius > 0) || math.IsInf(c.InitialRadius, 0):
		return fmt.Errorf("%w: initial_radius must be positive and finite, got %g", ErrBadConfig, c.InitialRadius)
	case !(c.RadiusStep > 0) || math.IsInf(c.RadiusStep, 0):
		return fmt.Errorf("%w: radius_step must be positive and finite, got %g", ErrBadConfig, c.RadiusStep)
	case c.MaxAttempts <= 0:
		return fmt.Errorf("%w: max_attempts must be positive, got %d", ErrBadConfig, c.MaxAttempts)
	case c.MaxRadius < 0:
		return fmt.Errorf("%w: max_radius must be non-negative, got %g", ErrBadConfig, c.MaxRadius)
	case c.MaxRadius > 0 && c.MaxRadius < c.InitialRadius:
		return fmt.Errorf("%w: max_radius %g below initial_radius %g", ErrBadConfig, c.MaxRadius, c.InitialRadius)
	}

	return nil
}

// RadiusAt returns the radius of attempt k.
func (c Config) RadiusAt(k int) float64 {
	return c.InitialRadius + float64(k)*c.RadiusStep
}

// Radii returns the full escalation sequence allowed by c.
func (c Config) Radii() []float64 {
	var out []float64
	for k := 0; k < c.MaxAttempts; k++ {
		r := c.RadiusAt(k)
		if c.MaxRadius > 0 && r > c.MaxRadius+radiusEpsilon {
			break
		}
		out = append(out, r)
	}

	return out
}

// PositionProvider supplies the agent position. It is read once per
// navigation request, never sampled continuously.
type PositionProvider interface {
	Position() core.Position
}

// PositionFunc adapts a function to PositionProvider.
type PositionFunc func() core.Position

// Position calls f.
func (f PositionFunc) Position() core.Position { return f() }

// FixedPosition is a PositionProvider that always reports the same point.
type FixedPosition core.Position

// Position returns p.
func (p FixedPosition) Position() core.Position { return core.Position(p) }

// Activator is the rendering collaborator that shows and hides next-stop markers.
//
// Activate marks node as the visible next stop. facing is the node the marker
// should turn towards (predecessor for endpoints, successor otherwise), or nil.
type Activator interface {
	Activate(node, facing *core.Node)
	Deactivate(node *core.Node)
}

// NopActivator ignores every call.
type NopActivator struct{}

// Activate does nothing.
func (NopActivator) Activate(_, _ *core.Node) {}

// Deactivate does nothing.
func (NopActivator) Deactivate(_ *core.Node) {}

// Observer receives session notifications, synchronously and in subscription order.
// Observers must not start a new navigation from inside a callback.
type Observer interface {
	// OnTargetChanged fires when a request switches to a different target.
	OnTargetChanged(target *core.Node)

	// OnActiveChanged fires whenever a node becomes the active next stop.
	OnActiveChanged(active *core.Node)
}

// ObserverFuncs adapts optional functions to Observer.
type ObserverFuncs struct {
	TargetChanged func(target *core.Node)
	ActiveChanged func(active *core.Node)
}

// OnTargetChanged calls TargetChanged when set.
func (o ObserverFuncs) OnTargetChanged(target *core.Node) {
	if o.TargetChanged != nil {
		o.TargetChanged(target)
	}
}

// OnActiveChanged calls ActiveChanged when set.
func (o ObserverFuncs) OnActiveChanged(active *core.Node) {
	if o.ActiveChanged != nil {
		o.ActiveChanged(active)
	}
}

// Option configures a Session.
type Option func(*Session)

// WithConfig replaces the escalation bounds. Zero fields take defaults.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		cfg.SetDefaults()
		s.cfg = cfg
	}
}

// WithActivator installs the rendering collaborator.
func WithActivator(a Activator) Option {
	return func(s *Session) {
		if a != nil {
			s.activator = a
		}
	}
}

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records session activity on m.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithHeuristic overrides the path finder heuristic.
func WithHeuristic(h astar.Heuristic) Option {
	return func(s *Session) {
		if h != nil {
			s.heuristic = h
		}
	}
}
