// Package registry tracks which nodes are valid navigation destinations and
// resolves external selectors (list index or display name) to them.
//
// Only ENDPOINT nodes are registered; they keep arrival order so that index
// selectors from a dropdown stay stable.
//
// Name policy:
//
//	FirstMatch (default): duplicate names are accepted; ResolveName
//	                      returns the earliest registered endpoint.
//	Unique:               Register rejects a second endpoint with an
//	                      existing name (ErrDuplicateName).
package registry

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/katalvlaran/waypath/core"
)

// Sentinel errors for registry operations.
var (
	// ErrUnresolvedTarget indicates an index, name or selector matched no endpoint.
	ErrUnresolvedTarget = errors.New("registry: target not resolved")

	// ErrDuplicateName indicates a name collision under the Unique policy.
	ErrDuplicateName = errors.New("registry: duplicate endpoint name")

	// ErrDuplicateNode indicates the same node ID was registered twice.
	ErrDuplicateNode = errors.New("registry: node already registered")
)

// NamePolicy selects how duplicate display names are handled.
type NamePolicy int

const (
	// FirstMatch accepts duplicates; lookups return the first registered.
	FirstMatch NamePolicy = iota

	// Unique rejects duplicates at registration.
	Unique
)

// Option configures a Registry.
type Option func(*Registry)

// WithUniqueNames switches the registry to the Unique name policy.
func WithUniqueNames() Option {
	return func(r *Registry) { r.policy = Unique }
}

// Registry is the ordered list of registered endpoints.
type Registry struct {
	mu      sync.RWMutex
	policy  NamePolicy
	targets []*core.Node
	byID    map[string]int
}

// New returns an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{byID: make(map[string]int)}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Policy returns the configured name policy.
func (r *Registry) Policy() NamePolicy { return r.policy }

// Register appends n if it is an ENDPOINT and reports whether it was added.
// WAYPOINT and nil nodes are ignored (false, nil).
func (r *Registry) Register(n *core.Node) (bool, error) {
	if n == nil || n.Type != core.Endpoint {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[n.ID]; ok {
		return false, fmt.Errorf("%w: %q", ErrDuplicateNode, n.ID)
	}
	if r.policy == Unique && r.indexOfName(n.Name) >= 0 {
		return false, fmt.Errorf("%w: %q", ErrDuplicateName, n.Name)
	}
	r.byID[n.ID] = len(r.targets)
	r.targets = append(r.targets, n)

	return true, nil
}

// Remove unregisters the endpoint with the given ID; later indices shift down.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.byID[id]
	if !ok {
		return false
	}
	r.targets = append(r.targets[:i], r.targets[i+1:]...)
	r.reindex()

	return true
}

// Clear drops every registration.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.targets = nil
	r.byID = make(map[string]int)
}

// Len returns the number of registered endpoints.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.targets)
}

// Targets returns the registered endpoints in arrival order.
func (r *Registry) Targets() []*core.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*core.Node, len(r.targets))
	copy(out, r.targets)

	return out
}

// Names returns endpoint display names in arrival order, e.g. to fill a dropdown.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.targets))
	for i, n := range r.targets {
		out[i] = n.Name
	}

	return out
}

// Contains reports whether the node ID is registered.
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byID[id]

	return ok
}

// Default returns the most recently registered endpoint, the target used
// when the caller has not chosen one.
func (r *Registry) Default() (*core.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.targets) == 0 {
		return nil, fmt.Errorf("%w: no endpoints registered", ErrUnresolvedTarget)
	}

	return r.targets[len(r.targets)-1], nil
}

// ResolveIndex returns the endpoint at position i in arrival order.
func (r *Registry) ResolveIndex(i int) (*core.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i < 0 || i >= len(r.targets) {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrUnresolvedTarget, i, len(r.targets))
	}

	return r.targets[i], nil
}

// ResolveName returns the first endpoint whose display name equals name exactly.
func (r *Registry) ResolveName(name string) (*core.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOfName(name); i >= 0 {
		return r.targets[i], nil
	}

	return nil, fmt.Errorf("%w: name %q", ErrUnresolvedTarget, name)
}

// Resolve interprets selector as an index when it is a non-negative decimal
// integer and as a display name otherwise. A name that looks like a number is
// still reachable: if the index lookup fails the name lookup is tried.
func (r *Registry) Resolve(selector string) (*core.Node, error) {
	if i, err := strconv.Atoi(selector); err == nil && i >= 0 {
		if n, err := r.ResolveIndex(i); err == nil {
			return n, nil
		}
	}

	return r.ResolveName(selector)
}

// indexOfName returns the first index with the given name or -1. Caller holds a lock.
func (r *Registry) indexOfName(name string) int {
	for i, n := range r.targets {
		if n.Name == name {
			return i
		}
	}

	return -1
}

// reindex rebuilds byID after a removal. Caller holds the write lock.
func (r *Registry) reindex() {
	r.byID = make(map[string]int, len(r.targets))
	for i, n := range r.targets {
		r.byID[n.ID] = i
	}
}
