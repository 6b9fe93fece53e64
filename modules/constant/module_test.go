package constant_test

import (
	"testing"

	"github.com/specialistvlad/terragridgo/internal/testutil"
	"github.com/specialistvlad/terragridgo/modules/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstant(t *testing.T) {
	ctx, _ := testutil.Context(t)
	g := testutil.NewGraph(t, testutil.Layout, &constant.Module{})
	g.Add("c", "constant")
	g.Set("c", "value", 0.25)
	require.NoError(t, g.Update(ctx))

	h := g.HeightMap("c", "output")
	assert.True(t, h.Layout.Equal(testutil.Layout))
	lo, hi := h.MinMax()
	assert.EqualValues(t, 0.25, lo)
	assert.EqualValues(t, 0.25, hi)
}
