package hmap

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

var defaultWorkers atomic.Int32

// SetWorkers sets the default number of tiles processed concurrently.
// Values <= 0 select GOMAXPROCS.
func SetWorkers(n int) {
	defaultWorkers.Store(int32(n))
}

func workers() int {
	if n := int(defaultWorkers.Load()); n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

type options struct {
	workers int
}

// Option tunes tile dispatch.
type Option func(*options)

// Workers overrides the number of concurrent tile workers for one call.
func Workers(n int) Option {
	return func(o *options) { o.workers = n }
}

// Sequential runs tiles one after the other.
func Sequential() Option {
	return Workers(1)
}

func newOptions(opts []Option) options {
	o := options{workers: workers()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = 1
	}
	return o
}

// TransformFunc processes one tile. aux and outs hold the matching tiles of
// the auxiliary and output heightmaps; an entry is nil when the
// corresponding heightmap was nil.
type TransformFunc func(x *Array, aux []*Array, outs []*Array) error

// Transform applies fn to every tile of h. Auxiliary heightmaps must share
// h's layout; output heightmaps are reallocated to h's layout. Nil entries
// in aux or outs are passed through as nil arrays for every tile.
func Transform(h *HeightMap, aux []*HeightMap, outs []*HeightMap, fn TransformFunc, opts ...Option) error {
	if !h.IsAllocated() {
		return errors.New("transform: heightmap has no storage")
	}
	for k, a := range aux {
		if a == nil {
			continue
		}
		if !a.Layout.Equal(h.Layout) {
			return fmt.Errorf("transform: auxiliary buffer %d layout (%s) differs from target (%s)", k, a.Layout, h.Layout)
		}
	}
	for _, o := range outs {
		if o == nil {
			continue
		}
		if err := o.SetSto(h.Layout); err != nil {
			return fmt.Errorf("transform: %w", err)
		}
	}

	o := newOptions(opts)
	var g errgroup.Group
	g.SetLimit(o.workers)
	for k := range h.Tiles {
		g.Go(func() error {
			return fn(h.Tiles[k].Array, tilesAt(aux, k), tilesAt(outs, k))
		})
	}
	return g.Wait()
}

func tilesAt(hs []*HeightMap, k int) []*Array {
	if len(hs) == 0 {
		return nil
	}
	arrs := make([]*Array, len(hs))
	for i, hm := range hs {
		if hm != nil {
			arrs[i] = hm.Tiles[k].Array
		}
	}
	return arrs
}

// GenerateFunc produces the samples of one tile. shape is the tile array
// shape; shift and scale locate the tile in unit coordinates. noiseX and
// noiseY are the matching tiles of optional displacement fields, or nil.
type GenerateFunc func(shape Vec2[int], shift, scale Vec2[float64], noiseX, noiseY *Array) *Array

// Fill regenerates every tile of h with gen. dx and dy are optional
// displacement heightmaps sharing h's layout. Overlap buffers are
// reconciled afterwards, since tiles may round shared positions
// differently.
func Fill(h *HeightMap, dx, dy *HeightMap, gen GenerateFunc, opts ...Option) error {
	if !h.IsAllocated() {
		return errors.New("fill: heightmap has no storage")
	}
	for _, d := range []*HeightMap{dx, dy} {
		if d != nil && !d.Layout.Equal(h.Layout) {
			return fmt.Errorf("fill: displacement layout (%s) differs from target (%s)", d.Layout, h.Layout)
		}
	}

	o := newOptions(opts)
	var g errgroup.Group
	g.SetLimit(o.workers)
	for k, t := range h.Tiles {
		g.Go(func() error {
			var nx, ny *Array
			if dx != nil {
				nx = dx.Tiles[k].Array
			}
			if dy != nil {
				ny = dy.Tiles[k].Array
			}
			out := gen(t.Shape, t.Shift, t.Scale, nx, ny)
			if out == nil || out.Shape != t.Shape {
				return fmt.Errorf("fill: generator returned wrong shape for tile %v", t.Index)
			}
			copy(t.Data, out.Data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	h.SmoothOverlapBuffers()
	return nil
}
