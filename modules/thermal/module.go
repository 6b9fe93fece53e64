package thermal

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

// Register registers the "thermal" node type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(&graph.NodeType{
		Tag:         "thermal",
		Category:    "Erosion/Thermal",
		Description: "Thermal erosion: material slides down slopes steeper than the talus angle.",
		Ports: []graph.PortSpec{
			graph.Input("input", graph.DataHeightMap),
			graph.OptionalInput("bedrock", graph.DataHeightMap),
			graph.OptionalInput("mask", graph.DataHeightMap),
			graph.Output("output", graph.DataHeightMap),
			graph.Output("deposition_map", graph.DataHeightMap),
		},
		Attributes: func() *attr.Bag {
			return attr.NewBag().
				Add("talus_global", attr.NewFloat(1, 0, 16)).
				Add("iterations", attr.NewInt(10, 1, 500))
		},
		New: func() graph.Operator { return graph.OperatorFunc(compute) },
	})
}

func compute(_ context.Context, io *graph.IO) error {
	a := io.Attrs()
	out := io.OutHeightMap("output")
	if err := out.CopyFrom(io.HeightMap("input")); err != nil {
		return err
	}
	dep := io.OutHeightMap("deposition_map")

	talus := float32(a.Float("talus_global") / float64(out.Layout.Shape.X))
	iterations := a.Int("iterations")
	aux := []*hmap.HeightMap{io.HeightMap("bedrock"), io.HeightMap("mask")}

	err := hmap.Transform(out, aux, []*hmap.HeightMap{dep}, func(x *hmap.Array, aux, outs []*hmap.Array) error {
		before := x.Clone()
		Erode(x, talus, iterations, aux[0])
		if aux[1] != nil {
			kernel.Blend(x, before, aux[1])
		}
		for k, v := range x.Data {
			outs[0].Data[k] = max(v-before.Data[k], 0)
		}
		return nil
	})
	if err != nil {
		return err
	}

	out.SmoothOverlapBuffers()
	dep.SmoothOverlapBuffers()
	return nil
}

var neighbours = [8][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}

// Erode moves material from every sample to its lower neighbours while the
// slope exceeds talus. Total mass is conserved. A sample never drops below
// the optional bedrock.
func Erode(z *hmap.Array, talus float32, iterations int, bedrock *hmap.Array) {
	nx, ny := z.Shape.X, z.Shape.Y
	for range iterations {
		src := z.Clone()
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := src.At(i, j)
				var ds [8]float32
				var dmax, dsum float32
				for k, o := range neighbours {
					ii, jj := i+o[0], j+o[1]
					if ii < 0 || jj < 0 || ii >= nx || jj >= ny {
						continue
					}
					if d := c - src.At(ii, jj); d > talus {
						ds[k] = d
						dsum += d
						dmax = max(dmax, d)
					}
				}
				if dsum == 0 {
					continue
				}

				amount := 0.5 * (dmax - talus)
				if bedrock != nil {
					amount = min(amount, max(c-bedrock.At(i, j), 0))
				}
				if amount <= 0 {
					continue
				}
				z.Data[j*nx+i] -= amount
				for k, o := range neighbours {
					if ds[k] > 0 {
						z.Data[(j+o[1])*nx+i+o[0]] += amount * ds[k] / dsum
					}
				}
			}
		}
	}
}
