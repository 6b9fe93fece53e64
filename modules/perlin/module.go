package perlin

import (
	"context"

	goperlin "github.com/aquilax/go-perlin"
	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/registry"
	"github.com/specialistvlad/terragridgo/modules/internal/kernel"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the "perlin" node type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(&graph.NodeType{
		Tag:         "perlin",
		Category:    "Primitive/Coherent Noise",
		Description: "Fractal Perlin noise, optionally domain-warped by dx and dy.",
		Ports:       registry.PrimitivePorts(),
		Attributes:  attributes,
		New:         func() graph.Operator { return graph.OperatorFunc(compute) },
	})
}

func attributes() *attr.Bag {
	return attr.NewBag().
		Add("kw", attr.NewFloat(2, 0.01, 64)).
		Add("seed", attr.NewSeed(1)).
		Add("octaves", attr.NewInt(8, 1, 12)).
		Add("persistence", attr.NewFloat(0.5, 0.05, 1)).
		Add("lacunarity", attr.NewFloat(2, 1, 4)).
		Add("vrange", attr.NewRange(0, 1, true, -2, 2))
}

func compute(_ context.Context, io *graph.IO) error {
	a := io.Attrs()
	out := io.OutHeightMap("output")
	if err := out.SetSto(io.Layout()); err != nil {
		return err
	}

	kw := a.Float("kw")
	// alpha divides each octave's amplitude, so it is the inverse persistence.
	noise := goperlin.NewPerlin(1/a.Float("persistence"), a.Float("lacunarity"), int32(a.Int("octaves")), int64(a.Int("seed")))

	err := hmap.Fill(out, io.HeightMap("dx"), io.HeightMap("dy"),
		func(shape hmap.Vec2[int], shift, scale hmap.Vec2[float64], nx, ny *hmap.Array) *hmap.Array {
			arr := hmap.NewArray(shape)
			for j := 0; j < shape.Y; j++ {
				for i := 0; i < shape.X; i++ {
					x, y := kernel.UnitGrid(shape, shift, scale, i, j)
					x += kernel.Displaced(nx, i, j)
					y += kernel.Displaced(ny, i, j)
					arr.Set(i, j, float32(noise.Noise2D(kw*x, kw*y)))
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
