package gradienttalus_test

import (
	"testing"

	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/testutil"
	"github.com/specialistvlad/terragridgo/modules/constant"
	"github.com/specialistvlad/terragridgo/modules/gradienttalus"
	"github.com/specialistvlad/terragridgo/modules/wavesine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradientTalus(t *testing.T) {
	ctx, _ := testutil.Context(t)
	g := testutil.NewGraph(t, testutil.Layout, &constant.Module{}, &wavesine.Module{}, &gradienttalus.Module{})
	g.Add("flat", "constant")
	g.Add("wave", "wave_sine")
	g.Add("flat_talus", "gradient_talus")
	g.Add("wave_talus", "gradient_talus")
	g.Connect("flat", "output", "flat_talus", "input")
	g.Connect("wave", "output", "wave_talus", "input")
	require.NoError(t, g.Update(ctx))

	lo, hi := g.HeightMap("flat_talus", "output").MinMax()
	assert.Zero(t, lo)
	assert.Zero(t, hi)

	h := g.HeightMap("wave_talus", "output")
	_, hi = h.MinMax()
	assert.Positive(t, hi)
	testutil.RequireOverlapConsistent(t, h)

	buf, err := g.Output("wave_talus", "array")
	require.NoError(t, err)
	arr := buf.(*hmap.Array)
	assert.Equal(t, testutil.Layout.Shape, arr.Shape)
	assert.Equal(t, h.ToArray().Data, arr.Data)
}

func TestTalusKernel(t *testing.T) {
	z := hmap.NewArray(hmap.V2(3, 3))
	z.Set(1, 1, 2)
	dst := hmap.NewArray(z.Shape)
	gradienttalus.Talus(z, dst)

	assert.EqualValues(t, 2, dst.At(1, 1))
	assert.EqualValues(t, 2, dst.At(0, 0), "corners see the peak diagonally")
}
