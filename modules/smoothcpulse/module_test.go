package smoothcpulse_test

import (
	"testing"

	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/testutil"
	"github.com/specialistvlad/terragridgo/modules/constant"
	"github.com/specialistvlad/terragridgo/modules/perlin"
	"github.com/specialistvlad/terragridgo/modules/smoothcpulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var layout = hmap.Layout{Shape: hmap.V2(64, 64), Tiling: hmap.V2(2, 2), Overlap: 0.25}

func newGraph(t *testing.T) *testutil.Graph {
	t.Helper()
	g := testutil.NewGraph(t, layout, &perlin.Module{}, &smoothcpulse.Module{}, &constant.Module{})
	g.Add("noise", "perlin")
	g.Add("smooth", "smooth_cpulse")
	g.Connect("noise", "output", "smooth", "input")
	return g
}

func TestChangingRadiusRecomputesOnlyTheFilter(t *testing.T) {
	ctx, _ := testutil.Context(t)
	g := newGraph(t)
	g.Set("smooth", "ir", 8)
	require.NoError(t, g.Update(ctx))

	noise := g.HeightMap("noise", "output")
	noiseSum := noise.Checksum()
	smoothSum := g.HeightMap("smooth", "output").Checksum()

	g.Set("smooth", "ir", 16)
	assert.Equal(t, graph.Clean, g.MustNode("noise").State())
	assert.Equal(t, graph.Dirty, g.MustNode("smooth").State())

	report, err := g.UpdateReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"smooth"}, report.Computed)

	assert.Same(t, noise, g.HeightMap("noise", "output"))
	assert.Equal(t, noiseSum, noise.Checksum(), "the primitive output is untouched")
	assert.NotEqual(t, smoothSum, g.HeightMap("smooth", "output").Checksum())
}

func TestSmoothing(t *testing.T) {
	ctx, _ := testutil.Context(t)
	g := newGraph(t)
	g.Set("smooth", "ir", 4)
	require.NoError(t, g.Update(ctx))

	in, out := g.HeightMap("noise", "output"), g.HeightMap("smooth", "output")
	inLo, inHi := in.MinMax()
	outLo, outHi := out.MinMax()
	assert.GreaterOrEqual(t, outLo, inLo)
	assert.LessOrEqual(t, outHi, inHi)
	assert.Less(t, outHi-outLo, inHi-inLo, "smoothing narrows the range")
	testutil.RequireOverlapConsistent(t, out)
}

func TestZeroMaskKeepsInput(t *testing.T) {
	ctx, _ := testutil.Context(t)
	g := newGraph(t)
	g.Add("mask", "constant")
	g.Set("mask", "value", 0.0)
	g.Connect("mask", "output", "smooth", "mask")
	require.NoError(t, g.Update(ctx))

	assert.Equal(t, g.HeightMap("noise", "output").Checksum(), g.HeightMap("smooth", "output").Checksum())
}

func TestUnlinkedMaskMatchesFullMask(t *testing.T) {
	ctx, _ := testutil.Context(t)
	g := newGraph(t)
	g.Add("masked", "smooth_cpulse")
	g.Add("ones", "constant")
	g.Set("ones", "value", 1.0)
	g.Connect("noise", "output", "masked", "input")
	g.Connect("ones", "output", "masked", "mask")
	require.NoError(t, g.Update(ctx))

	assert.Equal(t, g.HeightMap("smooth", "output").ToArray().Data, g.HeightMap("masked", "output").ToArray().Data)
}
