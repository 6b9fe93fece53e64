package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/ctxlog"
	"github.com/specialistvlad/terragridgo/internal/hmap"
)

type slotKey struct {
	node, port string
}

// arena owns the output buffers of every node.
type arena struct {
	slots map[slotKey]any
}

func newArena() *arena {
	return &arena{slots: make(map[slotKey]any)}
}

func newBuffer(t DataType) any {
	switch t {
	case DataArray:
		return &hmap.Array{}
	case DataHeightMap:
		return &hmap.HeightMap{}
	case DataCloud:
		return &hmap.Cloud{}
	case DataPath:
		return &hmap.Path{}
	case DataHeightMapRGB:
		return &hmap.HeightMapRGB{}
	}
	panic(fmt.Sprintf("graph: no buffer for %s", t))
}

func (a *arena) alloc(n *Node) {
	for _, p := range n.ports {
		if p.spec.Direction == Out {
			a.slots[slotKey{n.id, p.spec.Name}] = newBuffer(p.spec.Type)
		}
	}
}

func (a *arena) release(n *Node) {
	for _, p := range n.ports {
		delete(a.slots, slotKey{n.id, p.spec.Name})
	}
}

func (a *arena) get(p *Port) any {
	return a.slots[slotKey{p.node.id, p.spec.Name}]
}

// checksum hashes an out-port buffer.
func checksum(buf any) uint64 {
	switch b := buf.(type) {
	case *hmap.Array:
		return b.Checksum()
	case *hmap.HeightMap:
		return b.Checksum()
	case *hmap.Cloud:
		return b.Checksum()
	case *hmap.Path:
		return b.Checksum()
	case *hmap.HeightMapRGB:
		return b.Checksum()
	}
	return 0
}

// IO gives an operator access to its node's buffers during Compute.
// Asking for an undeclared port, or for a port with another data type,
// panics.
type IO struct {
	ctx  context.Context
	node *Node
}

func newIO(ctx context.Context, n *Node) *IO {
	return &IO{ctx: ctx, node: n}
}

func (io *IO) port(name string, d Direction, t DataType) *Port {
	p, ok := io.node.byName[name]
	if !ok || p.spec.Direction != d || p.spec.Type != t {
		panic(fmt.Sprintf("graph: node %q (%s) has no %s-port %q of type %s", io.node.id, io.node.typ.Tag, d, name, t))
	}
	return p
}

func (io *IO) input(name string, t DataType) any {
	p := io.port(name, In, t)
	if p.upstream == nil {
		return nil
	}
	return io.node.graph.arena.get(p.upstream)
}

func (io *IO) output(name string, t DataType) any {
	return io.node.graph.arena.get(io.port(name, Out, t))
}

// NodeID returns the id of the node being computed.
func (io *IO) NodeID() string { return io.node.id }

// Attrs returns the node attributes.
func (io *IO) Attrs() *attr.Bag { return io.node.attrs }

// Layout returns the graph default layout used by primitives.
func (io *IO) Layout() hmap.Layout { return io.node.graph.layout }

// Logger returns the context logger annotated with the node.
func (io *IO) Logger() *slog.Logger {
	return ctxlog.FromContext(io.ctx).With("node", io.node.id, "type", io.node.typ.Tag)
}

// HeightMap returns the buffer linked to an in-port, or nil when the port
// is unlinked.
func (io *IO) HeightMap(port string) *hmap.HeightMap {
	v, _ := io.input(port, DataHeightMap).(*hmap.HeightMap)
	return v
}

// Array returns the buffer linked to an in-port, or nil.
func (io *IO) Array(port string) *hmap.Array {
	v, _ := io.input(port, DataArray).(*hmap.Array)
	return v
}

// Cloud returns the buffer linked to an in-port, or nil.
func (io *IO) Cloud(port string) *hmap.Cloud {
	v, _ := io.input(port, DataCloud).(*hmap.Cloud)
	return v
}

// Path returns the buffer linked to an in-port, or nil.
func (io *IO) Path(port string) *hmap.Path {
	v, _ := io.input(port, DataPath).(*hmap.Path)
	return v
}

// RGB returns the buffer linked to an in-port, or nil.
func (io *IO) RGB(port string) *hmap.HeightMapRGB {
	v, _ := io.input(port, DataHeightMapRGB).(*hmap.HeightMapRGB)
	return v
}

// OutHeightMap returns the buffer of an out-port. It keeps its content
// between evaluations.
func (io *IO) OutHeightMap(port string) *hmap.HeightMap {
	return io.output(port, DataHeightMap).(*hmap.HeightMap)
}

// OutArray returns the buffer of an out-port.
func (io *IO) OutArray(port string) *hmap.Array {
	return io.output(port, DataArray).(*hmap.Array)
}

// OutCloud returns the buffer of an out-port.
func (io *IO) OutCloud(port string) *hmap.Cloud {
	return io.output(port, DataCloud).(*hmap.Cloud)
}

// OutPath returns the buffer of an out-port.
func (io *IO) OutPath(port string) *hmap.Path {
	return io.output(port, DataPath).(*hmap.Path)
}

// OutRGB returns the buffer of an out-port.
func (io *IO) OutRGB(port string) *hmap.HeightMapRGB {
	return io.output(port, DataHeightMapRGB).(*hmap.HeightMapRGB)
}
