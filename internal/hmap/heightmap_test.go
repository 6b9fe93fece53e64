package hmap

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayout() Layout {
	return Layout{Shape: V2(37, 29), Tiling: V2(4, 3), Overlap: 0.5}
}

// ramp returns an array whose value encodes its position.
func ramp(shape Vec2[int]) *Array {
	a := NewArray(shape)
	for j := 0; j < shape.Y; j++ {
		for i := 0; i < shape.X; i++ {
			a.Set(i, j, float32(i)+float32(j)*0.01)
		}
	}
	return a
}

// boxBlur averages the 3x3 neighbourhood of every sample, tile-locally.
func boxBlur(x *Array, _ []*Array, _ []*Array) error {
	src := x.Clone()
	for j := 0; j < x.Shape.Y; j++ {
		for i := 0; i < x.Shape.X; i++ {
			var s float32
			for dj := -1; dj <= 1; dj++ {
				for di := -1; di <= 1; di++ {
					s += src.AtClamped(i+di, j+dj)
				}
			}
			x.Set(i, j, s/9)
		}
	}
	return nil
}

func requireOverlapConsistent(t *testing.T, h *HeightMap) {
	t.Helper()
	for _, tile := range h.Tiles {
		for y := tile.Bounds.Y0; y < tile.Bounds.Y1; y++ {
			for x := tile.Bounds.X0; x < tile.Bounds.X1; x++ {
				require.Equal(t, h.At(x, y), tile.At(x-tile.Bounds.X0, y-tile.Bounds.Y0),
					"tile %v disagrees with owner at (%d, %d)", tile.Index, x, y)
			}
		}
	}
}

func TestSetSto(t *testing.T) {
	t.Run("tiles cover the shape exactly once", func(t *testing.T) {
		h, err := NewHeightMap(testLayout())
		require.NoError(t, err)
		require.Len(t, h.Tiles, 12)

		covered := make(map[[2]int]int)
		for _, tile := range h.Tiles {
			assert.Equal(t, tile.Bounds.Dx(), tile.Shape.X)
			assert.Equal(t, tile.Bounds.Dy(), tile.Shape.Y)
			for y := tile.Core.Y0; y < tile.Core.Y1; y++ {
				for x := tile.Core.X0; x < tile.Core.X1; x++ {
					covered[[2]int{x, y}]++
				}
			}
		}
		assert.Len(t, covered, 37*29)
		for k, n := range covered {
			assert.Equal(t, 1, n, "sample %v owned %d times", k, n)
		}
	})

	t.Run("identical layout keeps content", func(t *testing.T) {
		h, err := NewHeightMap(testLayout())
		require.NoError(t, err)
		require.NoError(t, h.FromArray(ramp(h.Layout.Shape)))
		before := h.Checksum()
		tiles := h.Tiles

		require.NoError(t, h.SetSto(testLayout()))
		assert.Equal(t, before, h.Checksum())
		assert.Same(t, tiles[0], h.Tiles[0])
	})

	t.Run("different layout discards content", func(t *testing.T) {
		h, err := NewHeightMap(testLayout())
		require.NoError(t, err)
		require.NoError(t, h.FromArray(ramp(h.Layout.Shape)))

		l := testLayout()
		l.Tiling = V2(2, 2)
		require.NoError(t, h.SetSto(l))
		lo, hi := h.MinMax()
		assert.Zero(t, lo)
		assert.Zero(t, hi)
		assert.Len(t, h.Tiles, 4)
	})

	t.Run("invalid layouts are rejected", func(t *testing.T) {
		for _, l := range []Layout{
			{Shape: V2(0, 4), Tiling: V2(1, 1)},
			{Shape: V2(4, 4), Tiling: V2(0, 1)},
			{Shape: V2(4, 4), Tiling: V2(8, 1)},
			{Shape: V2(4, 4), Tiling: V2(1, 1), Overlap: 1},
		} {
			_, err := NewHeightMap(l)
			assert.Error(t, err, "layout %s", l)
		}
	})
}

func TestSmoothOverlapBuffers(t *testing.T) {
	h, err := NewHeightMap(testLayout())
	require.NoError(t, err)
	require.NoError(t, h.FromArray(ramp(h.Layout.Shape)))

	require.NoError(t, Transform(h, nil, nil, boxBlur))

	inconsistent := false
	for _, tile := range h.Tiles {
		for y := tile.Bounds.Y0; y < tile.Bounds.Y1 && !inconsistent; y++ {
			for x := tile.Bounds.X0; x < tile.Bounds.X1; x++ {
				if h.At(x, y) != tile.At(x-tile.Bounds.X0, y-tile.Bounds.Y0) {
					inconsistent = true
					break
				}
			}
		}
	}
	require.True(t, inconsistent, "a tile-local blur should leave seams before reconciliation")

	h.SmoothOverlapBuffers()
	requireOverlapConsistent(t, h)
}

func TestTransform(t *testing.T) {
	t.Run("parallel and sequential results are bit identical", func(t *testing.T) {
		run := func(opt Option) uint64 {
			h, err := NewHeightMap(testLayout())
			require.NoError(t, err)
			require.NoError(t, h.FromArray(ramp(h.Layout.Shape)))
			require.NoError(t, Transform(h, nil, nil, boxBlur, opt))
			h.SmoothOverlapBuffers()
			return h.Checksum()
		}
		seq := run(Sequential())
		for range 5 {
			assert.Equal(t, seq, run(Workers(8)))
		}
	})

	t.Run("nil auxiliary buffers pass through as nil", func(t *testing.T) {
		h, err := NewHeightMap(testLayout())
		require.NoError(t, err)
		mask, err := NewHeightMap(testLayout())
		require.NoError(t, err)
		mask.Remap(1, 1)

		var calls, nilSeen atomic.Int32
		err = Transform(h, []*HeightMap{nil, mask}, []*HeightMap{nil}, func(x *Array, aux, outs []*Array) error {
			calls.Add(1)
			if aux[0] == nil && aux[1] != nil && outs[0] == nil {
				nilSeen.Add(1)
			}
			return nil
		})
		require.NoError(t, err)
		assert.EqualValues(t, len(h.Tiles), calls.Load())
		assert.EqualValues(t, len(h.Tiles), nilSeen.Load())
	})

	t.Run("outputs are allocated to the target layout", func(t *testing.T) {
		h, err := NewHeightMap(testLayout())
		require.NoError(t, err)
		out := &HeightMap{}
		require.NoError(t, Transform(h, nil, []*HeightMap{out}, func(x *Array, _, outs []*Array) error {
			outs[0].Fill(2)
			return nil
		}))
		assert.True(t, out.Layout.Equal(h.Layout))
		lo, hi := out.MinMax()
		assert.EqualValues(t, 2, lo)
		assert.EqualValues(t, 2, hi)
	})

	t.Run("mismatched auxiliary layout fails", func(t *testing.T) {
		h, err := NewHeightMap(testLayout())
		require.NoError(t, err)
		l := testLayout()
		l.Shape = V2(16, 16)
		other, err := NewHeightMap(l)
		require.NoError(t, err)
		err = Transform(h, []*HeightMap{other}, nil, boxBlur)
		assert.ErrorContains(t, err, "layout")
	})
}

func TestFill(t *testing.T) {
	gen := func(shape Vec2[int], shift, scale Vec2[float64], _, _ *Array) *Array {
		a := NewArray(shape)
		for j := 0; j < shape.Y; j++ {
			for i := 0; i < shape.X; i++ {
				x := shift.X + scale.X*float64(i)/float64(shape.X)
				y := shift.Y + scale.Y*float64(j)/float64(shape.Y)
				a.Set(i, j, float32(x*3+y))
			}
		}
		return a
	}

	h, err := NewHeightMap(testLayout())
	require.NoError(t, err)
	require.NoError(t, Fill(h, nil, nil, gen))

	requireOverlapConsistent(t, h)
}

func TestRemap(t *testing.T) {
	h, err := NewHeightMap(testLayout())
	require.NoError(t, err)
	require.NoError(t, h.FromArray(ramp(h.Layout.Shape)))

	h.Remap(-1, 2)
	lo, hi := h.MinMax()
	assert.InDelta(t, -1, lo, 1e-6)
	assert.InDelta(t, 2, hi, 1e-6)

	flat, err := NewHeightMap(testLayout())
	require.NoError(t, err)
	flat.Remap(0.5, 1)
	lo, hi = flat.MinMax()
	assert.EqualValues(t, 0.5, lo)
	assert.EqualValues(t, 0.5, hi)
}

func TestChecksumIgnoresTiling(t *testing.T) {
	a := ramp(V2(37, 29))

	h1, err := NewHeightMap(testLayout())
	require.NoError(t, err)
	require.NoError(t, h1.FromArray(a))

	l := testLayout()
	l.Tiling = V2(1, 1)
	h2, err := NewHeightMap(l)
	require.NoError(t, err)
	require.NoError(t, h2.FromArray(a))

	assert.Equal(t, h1.Checksum(), h2.Checksum())
	assert.Equal(t, a.Data, h1.ToArray().Data)

	c := h1.Clone()
	c.Tiles[0].Data[0] += 1
	assert.NotEqual(t, h1.Checksum(), c.Checksum())
}
