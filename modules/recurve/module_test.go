package recurve_test

import (
	"testing"

	"github.com/specialistvlad/terragridgo/internal/testutil"
	"github.com/specialistvlad/terragridgo/modules/recurve"
	"github.com/specialistvlad/terragridgo/modules/wavesine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGraph(t *testing.T, curve string) *testutil.Graph {
	t.Helper()
	ctx, _ := testutil.Context(t)
	g := testutil.NewGraph(t, testutil.Layout, &wavesine.Module{}, &recurve.Module{})
	g.Add("wave", "wave_sine")
	g.Add("curve", "recurve")
	g.Set("curve", "curve", curve)
	g.Connect("wave", "output", "curve", "input")
	require.NoError(t, g.Update(ctx))
	return g
}

func TestRecurve(t *testing.T) {
	t.Run("linear is the identity", func(t *testing.T) {
		g := newGraph(t, "linear")
		in, out := g.HeightMap("wave", "output").ToArray(), g.HeightMap("curve", "output").ToArray()
		for k := range in.Data {
			require.InDelta(t, in.Data[k], out.Data[k], 1e-5)
		}
	})

	t.Run("in_quad pulls values down and keeps the range", func(t *testing.T) {
		g := newGraph(t, "in_quad")
		in, out := g.HeightMap("wave", "output").ToArray(), g.HeightMap("curve", "output").ToArray()
		lowered := 0
		for k := range in.Data {
			require.LessOrEqual(t, out.Data[k], in.Data[k]+1e-6)
			if out.Data[k] < in.Data[k]-1e-3 {
				lowered++
			}
		}
		assert.Positive(t, lowered)

		lo, hi := out.MinMax()
		assert.InDelta(t, 0, lo, 1e-5)
		assert.InDelta(t, 1, hi, 1e-5)
	})

	t.Run("every listed curve is selectable", func(t *testing.T) {
		g := newGraph(t, "linear")
		for name := range recurve.Curves {
			g.Set("curve", "curve", name)
		}
		assert.Error(t, func() error {
			_, err := g.MustNode("curve").SetAttr("curve", "nope")
			return err
		}())
	})
}
