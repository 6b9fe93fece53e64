package colorize

import (
	"context"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the "colorize" node type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(&graph.NodeType{
		Tag:         "colorize",
		Category:    "Texture",
		Description: "Maps elevation linearly between two colors.",
		Ports: []graph.PortSpec{
			graph.Input("input", graph.DataHeightMap),
			graph.Output("output", graph.DataHeightMapRGB),
		},
		Attributes: func() *attr.Bag {
			return attr.NewBag().
				Add("color_low", attr.NewColor(0.1, 0.2, 0.05)).
				Add("color_high", attr.NewColor(0.95, 0.95, 0.9))
		},
		New: func() graph.Operator { return graph.OperatorFunc(compute) },
	})
}

func compute(_ context.Context, io *graph.IO) error {
	in := io.HeightMap("input")
	out := io.OutRGB("output")
	lowC, highC := io.Attrs().Color("color_low"), io.Attrs().Color("color_high")
	lo, hi := in.MinMax()

	low := [3]float32{float32(lowC.R), float32(lowC.G), float32(lowC.B)}
	high := [3]float32{float32(highC.R), float32(highC.G), float32(highC.B)}

	return hmap.Transform(in, nil, out.Channels(), func(x *hmap.Array, _, outs []*hmap.Array) error {
		for k, v := range x.Data {
			var t float32
			if hi > lo {
				t = (v - lo) / (hi - lo)
			}
			for c := range 3 {
				outs[c].Data[k] = low[c] + t*(high[c]-low[c])
			}
		}
		return nil
	})
}
