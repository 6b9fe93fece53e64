package hmap

import (
	"fmt"
	"hash/fnv"
	"math"
)

// Rect is a half-open integer rectangle [X0, X1) x [Y0, Y1).
type Rect struct {
	X0, Y0, X1, Y1 int
}

// Dx returns the rectangle width.
func (r Rect) Dx() int { return r.X1 - r.X0 }

// Dy returns the rectangle height.
func (r Rect) Dy() int { return r.Y1 - r.Y0 }

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

// Tile is one block of a HeightMap. Its Array covers Bounds (core plus
// overlap border) in global sample coordinates; Core is the region the tile
// owns.
type Tile struct {
	*Array
	// Index is the tile position in the tiling grid.
	Index Vec2[int]
	// Bounds is the extended region covered by Array, in global coordinates.
	Bounds Rect
	// Core is the owned region, in global coordinates.
	Core Rect
	// Shift and Scale locate the tile in unit coordinates: sample (i, j) of
	// the tile sits at Shift + Scale * (i/Shape.X, j/Shape.Y).
	Shift Vec2[float64]
	Scale Vec2[float64]
}

// HeightMap is a tiled scalar field.
type HeightMap struct {
	Layout Layout
	Tiles  []*Tile

	// cuts hold the core boundaries along each axis, len = tiling + 1.
	cutsX []int
	cutsY []int
}

// NewHeightMap allocates a zero-filled heightmap with the given layout.
func NewHeightMap(l Layout) (*HeightMap, error) {
	h := &HeightMap{}
	if err := h.SetSto(l); err != nil {
		return nil, err
	}
	return h, nil
}

// IsAllocated reports whether storage exists.
func (h *HeightMap) IsAllocated() bool {
	return h != nil && len(h.Tiles) > 0
}

// SetSto (re)allocates the storage for the given layout. It is a no-op when
// the layout is unchanged; otherwise the previous content is discarded.
func (h *HeightMap) SetSto(l Layout) error {
	if h.IsAllocated() && h.Layout.Equal(l) {
		return nil
	}
	if err := l.Validate(); err != nil {
		return fmt.Errorf("set storage: %w", err)
	}

	h.Layout = l
	h.cutsX = cuts(l.Shape.X, l.Tiling.X)
	h.cutsY = cuts(l.Shape.Y, l.Tiling.Y)
	h.Tiles = make([]*Tile, 0, l.Tiling.X*l.Tiling.Y)

	for ty := 0; ty < l.Tiling.Y; ty++ {
		for tx := 0; tx < l.Tiling.X; tx++ {
			core := Rect{X0: h.cutsX[tx], X1: h.cutsX[tx+1], Y0: h.cutsY[ty], Y1: h.cutsY[ty+1]}
			bx := border(core.Dx(), l.Overlap)
			by := border(core.Dy(), l.Overlap)
			bounds := Rect{
				X0: max(core.X0-bx, 0),
				X1: min(core.X1+bx, l.Shape.X),
				Y0: max(core.Y0-by, 0),
				Y1: min(core.Y1+by, l.Shape.Y),
			}
			h.Tiles = append(h.Tiles, &Tile{
				Array:  NewArray(V2(bounds.Dx(), bounds.Dy())),
				Index:  V2(tx, ty),
				Bounds: bounds,
				Core:   core,
				Shift:  V2(float64(bounds.X0)/float64(l.Shape.X), float64(bounds.Y0)/float64(l.Shape.Y)),
				Scale:  V2(float64(bounds.Dx())/float64(l.Shape.X), float64(bounds.Dy())/float64(l.Shape.Y)),
			})
		}
	}
	return nil
}

func cuts(n, parts int) []int {
	c := make([]int, parts+1)
	for k := 0; k <= parts; k++ {
		c[k] = k * n / parts
	}
	return c
}

func border(size int, overlap float64) int {
	return int(math.Round(overlap * float64(size) / 2))
}

// Tile returns the tile at grid position (tx, ty).
func (h *HeightMap) Tile(tx, ty int) *Tile {
	return h.Tiles[ty*h.Layout.Tiling.X+tx]
}

// owner returns the tile whose core contains global sample (x, y).
func (h *HeightMap) owner(x, y int) *Tile {
	return h.Tile(findCut(h.cutsX, x), findCut(h.cutsY, y))
}

func findCut(c []int, v int) int {
	lo, hi := 0, len(c)-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if c[mid] <= v {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// At returns the global sample (x, y), read from its owning tile.
func (h *HeightMap) At(x, y int) float32 {
	t := h.owner(x, y)
	return t.At(x-t.Bounds.X0, y-t.Bounds.Y0)
}

// SmoothOverlapBuffers copies every border sample from the tile that owns
// it, so that all tiles agree on every shared sample. Cores are only read,
// borders only written.
func (h *HeightMap) SmoothOverlapBuffers() {
	if !h.IsAllocated() || len(h.Tiles) == 1 {
		return
	}
	for _, t := range h.Tiles {
		for y := t.Bounds.Y0; y < t.Bounds.Y1; y++ {
			for x := t.Bounds.X0; x < t.Bounds.X1; x++ {
				if t.Core.Contains(x, y) {
					continue
				}
				o := h.owner(x, y)
				t.Set(x-t.Bounds.X0, y-t.Bounds.Y0, o.At(x-o.Bounds.X0, y-o.Bounds.Y0))
			}
		}
	}
}

// MinMax returns the global extrema over the tile cores.
func (h *HeightMap) MinMax() (float32, float32) {
	if !h.IsAllocated() {
		return 0, 0
	}
	lo, hi := float32(math.Inf(1)), float32(math.Inf(-1))
	for _, t := range h.Tiles {
		for y := t.Core.Y0; y < t.Core.Y1; y++ {
			for x := t.Core.X0; x < t.Core.X1; x++ {
				v := t.At(x-t.Bounds.X0, y-t.Bounds.Y0)
				lo = min(lo, v)
				hi = max(hi, v)
			}
		}
	}
	return lo, hi
}

// Remap applies a global affine rescale so that values span [vmin, vmax].
// A constant field maps to vmin.
func (h *HeightMap) Remap(vmin, vmax float32) {
	lo, hi := h.MinMax()
	for _, t := range h.Tiles {
		for k, v := range t.Data {
			if hi == lo {
				t.Data[k] = vmin
				continue
			}
			t.Data[k] = vmin + (v-lo)/(hi-lo)*(vmax-vmin)
		}
	}
}

// ToArray gathers the tile cores into one global array.
func (h *HeightMap) ToArray() *Array {
	a := NewArray(h.Layout.Shape)
	for _, t := range h.Tiles {
		for y := t.Core.Y0; y < t.Core.Y1; y++ {
			for x := t.Core.X0; x < t.Core.X1; x++ {
				a.Set(x, y, t.At(x-t.Bounds.X0, y-t.Bounds.Y0))
			}
		}
	}
	return a
}

// FromArray scatters a global array into every tile, borders included.
func (h *HeightMap) FromArray(a *Array) error {
	if a.Shape != h.Layout.Shape {
		return fmt.Errorf("array shape %dx%d does not match heightmap shape %dx%d",
			a.Shape.X, a.Shape.Y, h.Layout.Shape.X, h.Layout.Shape.Y)
	}
	for _, t := range h.Tiles {
		for y := t.Bounds.Y0; y < t.Bounds.Y1; y++ {
			for x := t.Bounds.X0; x < t.Bounds.X1; x++ {
				t.Set(x-t.Bounds.X0, y-t.Bounds.Y0, a.At(x, y))
			}
		}
	}
	return nil
}

// CopyFrom makes h an exact copy of src, reallocating when needed.
func (h *HeightMap) CopyFrom(src *HeightMap) error {
	if err := h.SetSto(src.Layout); err != nil {
		return err
	}
	for k, t := range src.Tiles {
		copy(h.Tiles[k].Data, t.Data)
	}
	return nil
}

// Clone returns a deep copy.
func (h *HeightMap) Clone() *HeightMap {
	c := &HeightMap{}
	if h.IsAllocated() {
		_ = c.CopyFrom(h)
	}
	return c
}

// Checksum hashes the gathered samples bit for bit. Two heightmaps with the
// same shape and identical values share a checksum regardless of tiling.
func (h *HeightMap) Checksum() uint64 {
	if !h.IsAllocated() {
		return fnv.New64a().Sum64()
	}
	return h.ToArray().Checksum()
}
