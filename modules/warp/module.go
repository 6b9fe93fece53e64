package warp

import (
	"context"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/registry"
	"github.com/specialistvlad/terragridgo/modules/internal/kernel"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the "warp" node type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(&graph.NodeType{
		Tag:         "warp",
		Category:    "Operator/Transform",
		Description: "Displaces the input by the dx and dy fields. scale is relative to the field width.",
		Ports: []graph.PortSpec{
			graph.Input("input", graph.DataHeightMap),
			graph.OptionalInput("dx", graph.DataHeightMap),
			graph.OptionalInput("dy", graph.DataHeightMap),
			graph.Output("output", graph.DataHeightMap),
		},
		Attributes: func() *attr.Bag {
			return attr.NewBag().Add("scale", attr.NewFloat(0.05, 0, 1))
		},
		New: func() graph.Operator { return graph.OperatorFunc(compute) },
	})
}

func compute(_ context.Context, io *graph.IO) error {
	out := io.OutHeightMap("output")
	if err := out.CopyFrom(io.HeightMap("input")); err != nil {
		return err
	}
	dx, dy := io.HeightMap("dx"), io.HeightMap("dy")
	if dx == nil && dy == nil {
		return nil
	}
	s := io.Attrs().Float("scale") * float64(out.Layout.Shape.X)

	err := hmap.Transform(out, []*hmap.HeightMap{dx, dy}, nil, func(x *hmap.Array, aux, _ []*hmap.Array) error {
		src := x.Clone()
		for j := 0; j < x.Shape.Y; j++ {
			for i := 0; i < x.Shape.X; i++ {
				u := float64(i) + s*kernel.Displaced(aux[0], i, j)
				v := float64(j) + s*kernel.Displaced(aux[1], i, j)
				x.Set(i, j, kernel.Bilinear(src, u, v))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	out.SmoothOverlapBuffers()
	return nil
}
