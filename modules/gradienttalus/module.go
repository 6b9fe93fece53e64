package gradienttalus

import (
	"context"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the "gradient_talus" node type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(&graph.NodeType{
		Tag:         "gradient_talus",
		Category:    "Operator/Gradient",
		Description: "Largest height difference to the eight neighbours. The gathered field is also emitted as a plain array.",
		Ports: []graph.PortSpec{
			graph.Input("input", graph.DataHeightMap),
			graph.Output("output", graph.DataHeightMap),
			graph.Output("array", graph.DataArray),
		},
		Attributes: func() *attr.Bag { return attr.NewBag() },
		New:        func() graph.Operator { return graph.OperatorFunc(compute) },
	})
}

func compute(_ context.Context, io *graph.IO) error {
	in := io.HeightMap("input")
	out := io.OutHeightMap("output")

	err := hmap.Transform(in, nil, []*hmap.HeightMap{out}, func(x *hmap.Array, _, outs []*hmap.Array) error {
		Talus(x, outs[0])
		return nil
	})
	if err != nil {
		return err
	}
	out.SmoothOverlapBuffers()

	*io.OutArray("array") = *out.ToArray()
	return nil
}

// Talus writes into dst the largest absolute difference between each
// sample of z and its eight neighbours.
func Talus(z, dst *hmap.Array) {
	for j := 0; j < z.Shape.Y; j++ {
		for i := 0; i < z.Shape.X; i++ {
			c := z.At(i, j)
			var m float32
			for dj := -1; dj <= 1; dj++ {
				for di := -1; di <= 1; di++ {
					d := c - z.AtClamped(i+di, j+dj)
					m = max(m, d, -d)
				}
			}
			dst.Set(i, j, m)
		}
	}
}
