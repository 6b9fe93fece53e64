package remap

import (
	"context"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the "remap" node type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(&graph.NodeType{
		Tag:         "remap",
		Category:    "Filter/Range",
		Description: "Rescales the input to span vrange.",
		Ports: []graph.PortSpec{
			graph.Input("input", graph.DataHeightMap),
			graph.Output("output", graph.DataHeightMap),
		},
		Attributes: func() *attr.Bag {
			return attr.NewBag().Add("vrange", attr.NewRange(0, 1, true, -10, 10))
		},
		New: func() graph.Operator {
			return graph.OperatorFunc(func(_ context.Context, io *graph.IO) error {
				out := io.OutHeightMap("output")
				if err := out.CopyFrom(io.HeightMap("input")); err != nil {
					return err
				}
				if vr := io.Attrs().Range("vrange"); vr.Active {
					out.Remap(float32(vr.X), float32(vr.Y))
				}
				return nil
			})
		},
	})
}
