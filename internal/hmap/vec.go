package hmap

import (
	"errors"
	"fmt"
)

// Vec2 is a two-component vector.
type Vec2[T int | float32 | float64] struct {
	X, Y T
}

// V2 builds a Vec2.
func V2[T int | float32 | float64](x, y T) Vec2[T] {
	return Vec2[T]{X: x, Y: y}
}

// Layout is the (shape, tiling, overlap) tuple describing how a field is
// stored.
type Layout struct {
	Shape   Vec2[int]
	Tiling  Vec2[int]
	Overlap float64
}

// Equal reports whether two layouts describe identical storage.
func (l Layout) Equal(o Layout) bool {
	return l.Shape == o.Shape && l.Tiling == o.Tiling && l.Overlap == o.Overlap
}

// IsZero reports whether the layout is unset.
func (l Layout) IsZero() bool {
	return l == Layout{}
}

// Validate checks that the layout can be allocated.
func (l Layout) Validate() error {
	if l.Shape.X <= 0 || l.Shape.Y <= 0 {
		return fmt.Errorf("invalid shape %dx%d: dimensions must be positive", l.Shape.X, l.Shape.Y)
	}
	if l.Tiling.X <= 0 || l.Tiling.Y <= 0 {
		return fmt.Errorf("invalid tiling %dx%d: counts must be positive", l.Tiling.X, l.Tiling.Y)
	}
	if l.Tiling.X > l.Shape.X || l.Tiling.Y > l.Shape.Y {
		return fmt.Errorf("tiling %dx%d exceeds shape %dx%d", l.Tiling.X, l.Tiling.Y, l.Shape.X, l.Shape.Y)
	}
	if l.Overlap < 0 || l.Overlap >= 1 {
		return errors.New("overlap must be in [0, 1)")
	}
	return nil
}

func (l Layout) String() string {
	return fmt.Sprintf("shape=%dx%d tiling=%dx%d overlap=%g", l.Shape.X, l.Shape.Y, l.Tiling.X, l.Tiling.Y, l.Overlap)
}
