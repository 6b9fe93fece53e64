package constant

import (
	"context"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the "constant" node type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(&graph.NodeType{
		Tag:         "constant",
		Category:    "Primitive/Function",
		Description: "Uniform field.",
		Ports:       []graph.PortSpec{graph.Output("output", graph.DataHeightMap)},
		Attributes: func() *attr.Bag {
			return attr.NewBag().Add("value", attr.NewFloat(0, -1, 1))
		},
		New: func() graph.Operator {
			return graph.OperatorFunc(func(_ context.Context, io *graph.IO) error {
				out := io.OutHeightMap("output")
				if err := out.SetSto(io.Layout()); err != nil {
					return err
				}
				v := float32(io.Attrs().Float("value"))
				for _, t := range out.Tiles {
					t.Fill(v)
				}
				return nil
			})
		},
	})
}
