// Package kernel holds the tile-level numerics and port plumbing shared by
// the node modules.
package kernel

import (
	"fmt"
	"math"

	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
)

// Filter copies the "input" port into "output", applies fn to every tile of
// the copy and blends the result with the untouched input using the
// optional "mask" port. Overlap buffers are reconciled afterwards.
func Filter(io *graph.IO, fn func(x *hmap.Array) error) error {
	in := io.HeightMap("input")
	out := io.OutHeightMap("output")
	if err := out.CopyFrom(in); err != nil {
		return fmt.Errorf("copy input: %w", err)
	}
	mask := io.HeightMap("mask")

	err := hmap.Transform(out, []*hmap.HeightMap{mask}, nil, func(x *hmap.Array, aux, _ []*hmap.Array) error {
		var before *hmap.Array
		if aux[0] != nil {
			before = x.Clone()
		}
		if err := fn(x); err != nil {
			return err
		}
		if aux[0] != nil {
			Blend(x, before, aux[0])
		}
		return nil
	})
	if err != nil {
		return err
	}
	out.SmoothOverlapBuffers()
	return nil
}

// Blend sets x to (1 - m) * before + m * x, with m clamped to [0, 1]. A
// weight of exactly 0 or 1 reproduces before or x bit for bit.
func Blend(x, before, m *hmap.Array) {
	for k, v := range x.Data {
		w := min(max(m.Data[k], 0), 1)
		x.Data[k] = (1-w)*before.Data[k] + w*v
	}
}

// CubicPulse returns the normalized cubic pulse kernel of radius ir.
func CubicPulse(ir int) []float32 {
	k := make([]float32, 2*ir+1)
	var sum float32
	for i := range k {
		t := math.Abs(float64(i-ir)) / float64(ir+1)
		v := float32(1 - t*t*(3-2*t))
		k[i] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// ConvolveSeparable convolves x with k along both axes, clamping at the
// array border.
func ConvolveSeparable(x *hmap.Array, k []float32) {
	r := len(k) / 2
	tmp := hmap.NewArray(x.Shape)
	for j := 0; j < x.Shape.Y; j++ {
		for i := 0; i < x.Shape.X; i++ {
			var s float32
			for q, w := range k {
				s += w * x.AtClamped(i+q-r, j)
			}
			tmp.Set(i, j, s)
		}
	}
	for j := 0; j < x.Shape.Y; j++ {
		for i := 0; i < x.Shape.X; i++ {
			var s float32
			for q, w := range k {
				s += w * tmp.AtClamped(i, j+q-r)
			}
			x.Set(i, j, s)
		}
	}
}

// Gradient returns the central-difference gradient at (i, j).
func Gradient(x *hmap.Array, i, j int) (float32, float32) {
	gx := (x.AtClamped(i+1, j) - x.AtClamped(i-1, j)) / 2
	gy := (x.AtClamped(i, j+1) - x.AtClamped(i, j-1)) / 2
	return gx, gy
}

// Bilinear samples x at fractional position (u, v), clamping at the border.
func Bilinear(x *hmap.Array, u, v float64) float32 {
	i0, j0 := int(math.Floor(u)), int(math.Floor(v))
	fu, fv := float32(u-float64(i0)), float32(v-float64(j0))
	a := x.AtClamped(i0, j0)
	b := x.AtClamped(i0+1, j0)
	c := x.AtClamped(i0, j0+1)
	d := x.AtClamped(i0+1, j0+1)
	return (a*(1-fu)+b*fu)*(1-fv) + (c*(1-fu)+d*fu)*fv
}

// UnitGrid returns the unit coordinate of sample (i, j) of a tile.
func UnitGrid(shape hmap.Vec2[int], shift, scale hmap.Vec2[float64], i, j int) (float64, float64) {
	return shift.X + scale.X*float64(i)/float64(shape.X),
		shift.Y + scale.Y*float64(j)/float64(shape.Y)
}

// Displaced returns the sample (i, j) of an optional displacement tile, or 0.
func Displaced(d *hmap.Array, i, j int) float64 {
	if d == nil {
		return 0
	}
	return float64(d.At(i, j))
}
