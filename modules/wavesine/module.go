package wavesine

import (
	"context"
	"math"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/registry"
	"github.com/specialistvlad/terragridgo/modules/internal/kernel"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the "wave_sine" node type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(&graph.NodeType{
		Tag:         "wave_sine",
		Category:    "Primitive/Function",
		Description: "Plane sine wave of wavenumber kw travelling along angle.",
		Ports:       registry.PrimitivePorts(),
		Attributes: func() *attr.Bag {
			return attr.NewBag().
				Add("kw", attr.NewFloat(2, 0.001, 64)).
				Add("angle", attr.NewFloat(0, -90, 90)).
				Add("phase_shift", attr.NewFloat(0, 0, 2*math.Pi)).
				Add("vrange", attr.NewRange(0, 1, true, -2, 2))
		},
		New: func() graph.Operator { return graph.OperatorFunc(compute) },
	})
}

func compute(_ context.Context, io *graph.IO) error {
	a := io.Attrs()
	out := io.OutHeightMap("output")
	if err := out.SetSto(io.Layout()); err != nil {
		return err
	}

	kw, phase := a.Float("kw"), a.Float("phase_shift")
	alpha := a.Float("angle") / 180 * math.Pi
	ca, sa := math.Cos(alpha), math.Sin(alpha)

	err := hmap.Fill(out, io.HeightMap("dx"), io.HeightMap("dy"),
		func(shape hmap.Vec2[int], shift, scale hmap.Vec2[float64], nx, ny *hmap.Array) *hmap.Array {
			arr := hmap.NewArray(shape)
			for j := 0; j < shape.Y; j++ {
				for i := 0; i < shape.X; i++ {
					x, y := kernel.UnitGrid(shape, shift, scale, i, j)
					x += kernel.Displaced(nx, i, j)
					y += kernel.Displaced(ny, i, j)
					r := ca*x + sa*y
					arr.Set(i, j, float32(math.Sin(2*math.Pi*kw*r+phase)))
				}
			}
			return arr
		})
	if err != nil {
		return err
	}

	if vr := a.Range("vrange"); vr.Active {
		out.Remap(float32(vr.X), float32(vr.Y))
	}
	return nil
}
