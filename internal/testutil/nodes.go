package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/registry"
)

// Layout is a small layout that keeps graph tests fast.
var Layout = hmap.Layout{Shape: hmap.V2(32, 24), Tiling: hmap.V2(2, 2), Overlap: 0.25}

// ErrInjected is returned by test nodes whose "fail" attribute is set.
var ErrInjected = errors.New("injected failure")

// Calls counts operator invocations per node id.
type Calls struct {
	mu    sync.Mutex
	n     map[string]int
	order []string
}

// NewCalls creates an empty counter.
func NewCalls() *Calls {
	return &Calls{n: make(map[string]int)}
}

func (c *Calls) record(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n[id]++
	c.order = append(c.order, id)
}

// Count returns how often the node computed.
func (c *Calls) Count(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n[id]
}

// Order returns node ids in computation order.
func (c *Calls) Order() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.order...)
}

// Reset forgets every recorded call.
func (c *Calls) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = make(map[string]int)
	c.order = nil
}

// NodesModule registers the test node types:
//
//   - "test_source": fills its output with the "value" attribute.
//   - "test_filter": adds "offset" to its input, weighted by an optional mask.
//   - "test_mix": sums inputs "a" and "b".
//   - "test_points": emits a point cloud sampled from its heightmap input.
//
// Each node fails with ErrInjected while its "fail" attribute is true.
type NodesModule struct {
	Calls *Calls
}

// NewNodesModule creates the module with a fresh counter.
func NewNodesModule() *NodesModule {
	return &NodesModule{Calls: NewCalls()}
}

// Register implements the registry.Module interface.
func (m *NodesModule) Register(r *registry.Registry) {
	for _, t := range m.Types() {
		r.RegisterNodeType(t)
	}
}

// Types returns the node types without registering them.
func (m *NodesModule) Types() []*graph.NodeType {
	return []*graph.NodeType{
		{
			Tag:      "test_source",
			Category: "Test/Primitive",
			Ports:    []graph.PortSpec{graph.Output("output", graph.DataHeightMap)},
			Attributes: func() *attr.Bag {
				return attr.NewBag().
					Add("value", attr.NewFloat(1, -100, 100)).
					Add("fail", attr.NewBool(false))
			},
			New: m.op(func(_ context.Context, io *graph.IO) error {
				out := io.OutHeightMap("output")
				if err := out.SetSto(io.Layout()); err != nil {
					return err
				}
				v := float32(io.Attrs().Float("value"))
				for _, t := range out.Tiles {
					t.Fill(v)
				}
				return nil
			}),
		},
		{
			Tag:      "test_filter",
			Category: "Test/Filter",
			Ports:    registry.FilterPorts(),
			Attributes: func() *attr.Bag {
				return attr.NewBag().
					Add("offset", attr.NewFloat(1, -100, 100)).
					Add("fail", attr.NewBool(false))
			},
			New: m.op(func(_ context.Context, io *graph.IO) error {
				in, mask := io.HeightMap("input"), io.HeightMap("mask")
				out := io.OutHeightMap("output")
				off := float32(io.Attrs().Float("offset"))
				return hmap.Transform(in, []*hmap.HeightMap{mask}, []*hmap.HeightMap{out}, func(x *hmap.Array, aux, outs []*hmap.Array) error {
					for k, v := range x.Data {
						w := float32(1)
						if aux[0] != nil {
							w = aux[0].Data[k]
						}
						outs[0].Data[k] = v + w*off
					}
					return nil
				})
			}),
		},
		{
			Tag:      "test_mix",
			Category: "Test/Operator",
			Ports: []graph.PortSpec{
				graph.Input("a", graph.DataHeightMap),
				graph.Input("b", graph.DataHeightMap),
				graph.Output("output", graph.DataHeightMap),
			},
			Attributes: func() *attr.Bag {
				return attr.NewBag().Add("fail", attr.NewBool(false))
			},
			New: m.op(func(_ context.Context, io *graph.IO) error {
				a, b := io.HeightMap("a"), io.HeightMap("b")
				return hmap.Transform(a, []*hmap.HeightMap{b}, []*hmap.HeightMap{io.OutHeightMap("output")}, func(x *hmap.Array, aux, outs []*hmap.Array) error {
					for k, v := range x.Data {
						outs[0].Data[k] = v + aux[0].Data[k]
					}
					return nil
				})
			}),
		},
		{
			Tag:      "test_points",
			Category: "Test/Operator",
			Ports: []graph.PortSpec{
				graph.Input("input", graph.DataHeightMap),
				graph.Output("points", graph.DataCloud),
			},
			Attributes: func() *attr.Bag {
				return attr.NewBag().Add("fail", attr.NewBool(false))
			},
			New: m.op(func(_ context.Context, io *graph.IO) error {
				in := io.HeightMap("input")
				out := io.OutCloud("points")
				out.Points = out.Points[:0]
				s := in.Layout.Shape
				for y := 0; y < s.Y; y += 8 {
					for x := 0; x < s.X; x += 8 {
						out.Add(hmap.Point{X: float32(x) / float32(s.X), Y: float32(y) / float32(s.Y), V: in.At(x, y)})
					}
				}
				return nil
			}),
		},
	}
}

func (m *NodesModule) op(fn graph.OperatorFunc) func() graph.Operator {
	return func() graph.Operator {
		return graph.OperatorFunc(func(ctx context.Context, io *graph.IO) error {
			m.Calls.record(io.NodeID())
			if io.Attrs().Bool("fail") {
				return ErrInjected
			}
			return fn(ctx, io)
		})
	}
}
