// Package nodelist reads and writes the node list document that persists a
// waypoint set between runs:
//
//	{"nodeList":{"nodes":[{"px":0,"py":0,"pz":0,"nodeType":0,"name":"node"}, ...]}}
//
// Records carry position, type and display name; identifiers are assigned on
// load by an IDFn. Record order is preserved in both directions, so endpoint
// indices stay stable across a save and a load.
package nodelist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/registry"
)

var (
	// ErrBadNodeType indicates a record whose nodeType is neither WAYPOINT (0) nor ENDPOINT (1).
	ErrBadNodeType = errors.New("nodelist: unknown node type")

	// ErrOptionViolation indicates an invalid Option value.
	ErrOptionViolation = errors.New("nodelist: invalid option")
)

// Record is one node as stored.
type Record struct {
	PX       float64 `json:"px"`
	PY       float64 `json:"py"`
	PZ       float64 `json:"pz"`
	NodeType int     `json:"nodeType"`
	Name     string  `json:"name"`
}

// List holds the stored records in order.
type List struct {
	Nodes []Record `json:"nodes"`
}

// Document is the top-level stored object.
type Document struct {
	NodeList *List `json:"nodeList"`
}

// Options configures decoding.
type Options struct {
	IDFn IDFn

	err error
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns UUID identifiers.
func DefaultOptions() Options {
	return Options{IDFn: UUIDFn}
}

// WithIDFn selects the identifier scheme. A nil fn is an option violation.
func WithIDFn(fn IDFn) Option {
	return func(o *Options) {
		if fn == nil {
			o.err = fmt.Errorf("%w: nil IDFn", ErrOptionViolation)
			return
		}
		o.IDFn = fn
	}
}

// FromNodes converts nodes to records, skipping nil entries.
func FromNodes(nodes []*core.Node) []Record {
	out := make([]Record, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		out = append(out, Record{
			PX:       n.Position.X,
			PY:       n.Position.Y,
			PZ:       n.Position.Z,
			NodeType: int(n.Type),
			Name:     n.Name,
		})
	}

	return out
}

// ToNodes converts records to nodes, assigning record i the ID opts.IDFn(i).
// An empty name becomes core.DefaultNodeName.
func ToNodes(records []Record, opts ...Option) ([]*core.Node, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	out := make([]*core.Node, 0, len(records))
	for i, rec := range records {
		typ := core.NodeType(rec.NodeType)
		if !typ.Valid() {
			return nil, fmt.Errorf("%w: record %d has nodeType %d", ErrBadNodeType, i, rec.NodeType)
		}
		name := rec.Name
		if name == "" {
			name = core.DefaultNodeName
		}
		out = append(out, &core.Node{
			ID:       o.IDFn(i),
			Position: core.Pos(rec.PX, rec.PY, rec.PZ),
			Type:     typ,
			Name:     name,
		})
	}

	return out, nil
}

// Encode writes nodes to w as an indented document.
func Encode(w io.Writer, nodes []*core.Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{NodeList: &List{Nodes: FromNodes(nodes)}}); err != nil {
		return fmt.Errorf("nodelist: encode: %w", err)
	}

	return nil
}

// Decode reads one document from r. A document without a nodeList, or with an
// empty one, yields an empty slice and no error.
func Decode(r io.Reader, opts ...Option) ([]*core.Node, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("nodelist: decode: %w", err)
	}
	if doc.NodeList == nil {
		return []*core.Node{}, nil
	}

	return ToNodes(doc.NodeList.Nodes, opts...)
}

// LoadFile decodes the document stored at path.
func LoadFile(path string, opts ...Option) ([]*core.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nodelist: open: %w", err)
	}
	defer f.Close()

	nodes, err := Decode(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return nodes, nil
}

// SaveFile writes nodes to path, replacing any existing file.
func SaveFile(path string, nodes []*core.Node) error {
	var buf bytes.Buffer
	if err := Encode(&buf, nodes); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("nodelist: write: %w", err)
	}

	return nil
}

// Populate adds nodes to g and reg in order. ENDPOINT nodes therefore keep
// their document order as target indices, and the last one becomes the
// registry default. It stops at the first error.
func Populate(g *core.Graph, reg *registry.Registry, nodes []*core.Node) error {
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			return fmt.Errorf("nodelist: populate graph: %w", err)
		}
		if reg == nil {
			continue
		}
		if _, err := reg.Register(n); err != nil {
			return fmt.Errorf("nodelist: populate registry: %w", err)
		}
	}

	return nil
}
