package view

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
)

// PreviewKind names how a node's main output should be previewed.
type PreviewKind string

const (
	PreviewNone      PreviewKind = "none"
	PreviewGrayscale PreviewKind = "grayscale"
	PreviewColor     PreviewKind = "color"
	PreviewPoints    PreviewKind = "points"
)

// Grid spacing of automatic node positions.
const (
	columnWidth = 220.0
	rowHeight   = 140.0
)

// Record is the presentation state of one node.
type Record struct {
	NodeID   string
	Type     string
	Category string
	Color    attr.RGB
	Preview  PreviewKind
	// Position is the top-left corner in editor space.
	X, Y float64
}

// View keeps one Record per graph node.
type View struct {
	g       *graph.Graph
	palette Palette
	records map[string]*Record
}

// New creates a view over g and synchronizes it.
func New(g *graph.Graph, palette Palette) *View {
	if palette == nil {
		palette = DefaultPalette()
	}
	v := &View{g: g, palette: palette, records: make(map[string]*Record)}
	v.Sync()
	return v
}

// Graph returns the underlying graph.
func (v *View) Graph() *graph.Graph { return v.g }

// Sync creates records for new nodes and drops those of removed nodes.
// Nodes without a stored position are placed in columns by link depth.
func (v *View) Sync() {
	nodes := v.g.Nodes()
	alive := make(map[string]bool, len(nodes))
	depth := depths(nodes)
	rows := make(map[int]int)

	for _, n := range nodes {
		alive[n.ID()] = true
		if _, ok := v.records[n.ID()]; ok {
			continue
		}
		d := depth[n.ID()]
		r := &Record{
			NodeID:   n.ID(),
			Type:     n.Type(),
			Category: n.Category(),
			Color:    v.palette.Color(n.Category()),
			Preview:  previewOf(n),
			X:        float64(d) * columnWidth,
			Y:        float64(rows[d]) * rowHeight,
		}
		rows[d]++
		v.records[n.ID()] = r
		n.SetPresentation(r)
	}
	for id := range v.records {
		if !alive[id] {
			delete(v.records, id)
		}
	}
}

func depths(nodes []*graph.Node) map[string]int {
	depth := make(map[string]int, len(nodes))
	var visit func(n *graph.Node) int
	visit = func(n *graph.Node) int {
		if d, ok := depth[n.ID()]; ok {
			return d
		}
		d := 0
		for _, p := range n.Inputs() {
			if up := p.Upstream(); up != nil {
				d = max(d, visit(up.Node())+1)
			}
		}
		depth[n.ID()] = d
		return d
	}
	for _, n := range nodes {
		visit(n)
	}
	return depth
}

func previewOf(n *graph.Node) PreviewKind {
	for _, p := range n.Outputs() {
		switch p.DataType() {
		case graph.DataHeightMap, graph.DataArray:
			return PreviewGrayscale
		case graph.DataHeightMapRGB:
			return PreviewColor
		case graph.DataCloud, graph.DataPath:
			return PreviewPoints
		}
	}
	return PreviewNone
}

// Record returns the record of a node.
func (v *View) Record(id string) (*Record, bool) {
	r, ok := v.records[id]
	return r, ok
}

// Records returns all records sorted by node id.
func (v *View) Records() []*Record {
	out := make([]*Record, 0, len(v.records))
	for _, r := range v.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeID < out[j].NodeID })
	return out
}

// Move sets the position of a node.
func (v *View) Move(id string, x, y float64) error {
	r, ok := v.records[id]
	if !ok {
		return fmt.Errorf("move: %w: %q", graph.ErrUnknownNode, id)
	}
	r.X, r.Y = x, y
	return nil
}

// NodeIDByHashID returns the id of the node owning a port.
func (v *View) NodeIDByHashID(hash uint64) (string, bool) {
	p, ok := v.g.PortByHashID(hash)
	if !ok {
		return "", false
	}
	return p.Node().ID(), true
}

// NewLink links the ports identified by their hash ids, then re-evaluates
// the upstream node and everything downstream of it. The link is returned
// even when the re-evaluation fails.
func (v *View) NewLink(ctx context.Context, hashFrom, hashTo uint64) (graph.Link, error) {
	from, ok := v.g.PortByHashID(hashFrom)
	if !ok {
		return graph.Link{}, fmt.Errorf("new link: %w: hash id %d", graph.ErrUnknownPort, hashFrom)
	}
	to, ok := v.g.PortByHashID(hashTo)
	if !ok {
		return graph.Link{}, fmt.Errorf("new link: %w: hash id %d", graph.ErrUnknownPort, hashTo)
	}
	l, err := v.g.Link(from.Node().ID(), from.Name(), to.Node().ID(), to.Name())
	if err != nil {
		return graph.Link{}, err
	}
	return *l, v.g.UpdateNode(ctx, l.FromNode)
}

// RemoveLink removes a link, then re-evaluates its downstream node and
// everything downstream of it.
func (v *View) RemoveLink(ctx context.Context, linkID uint64) error {
	l, ok := v.g.LinkByID(linkID)
	if !ok {
		return fmt.Errorf("remove link: %w: id %d", graph.ErrNotLinked, linkID)
	}
	if err := v.g.UnlinkByID(linkID); err != nil {
		return err
	}
	return v.g.UpdateNode(ctx, l.ToNode)
}

// LinkByID returns a link. Asking for an unknown id is a programming error
// and panics.
func (v *View) LinkByID(id uint64) graph.Link {
	return v.g.MustLink(id)
}

// Settings returns the attribute controls of a node.
func (v *View) Settings(id string) ([]attr.Control, error) {
	n, ok := v.g.Node(id)
	if !ok {
		return nil, fmt.Errorf("settings: %w: %q", graph.ErrUnknownNode, id)
	}
	return n.Attrs().Controls(), nil
}
