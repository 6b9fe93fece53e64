package builder

import (
	"errors"
	"testing"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/config"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/nodeid"
	"github.com/specialistvlad/terragridgo/internal/registry"
	"github.com/specialistvlad/terragridgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainModel() *config.Model {
	return &config.Model{
		Layout: testutil.Layout,
		Nodes: []*config.Node{
			{Type: "test_source", ID: "src", Attributes: attr.Document{"value": 2.0}},
			{
				Type:       "test_filter",
				ID:         "f",
				Attributes: attr.Document{"offset": 0.5},
				Inputs:     map[string]nodeid.Address{"input": nodeid.New("src", "output")},
			},
			{
				Type:   "test_points",
				ID:     "pts",
				Inputs: map[string]nodeid.Address{"input": nodeid.New("f", "output")},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	ctx, logs := testutil.Context(t)
	reg := registry.New(testutil.NewNodesModule())

	t.Run("creates nodes, attributes and links", func(t *testing.T) {
		res, err := Build(ctx, chainModel(), reg)
		require.NoError(t, err)
		require.NoError(t, res.Decode)

		g := res.Graph
		assert.Equal(t, testutil.Layout, g.Layout())
		assert.Len(t, g.Nodes(), 3)
		assert.Len(t, g.Links(), 2)
		assert.Equal(t, 0.5, g.MustNode("f").Attrs().Float("offset"))

		require.NoError(t, g.Update(ctx))
		for _, n := range g.Nodes() {
			assert.Equal(t, graph.Clean, n.State(), n.ID())
		}
	})

	t.Run("a bad field keeps its default and does not stop other nodes", func(t *testing.T) {
		m := chainModel()
		m.Nodes[0].Attributes = attr.Document{"value": "loud", "fail": false, "colour": 1.0}
		res, err := Build(ctx, m, reg)
		require.NoError(t, err)

		require.Error(t, res.Decode)
		var fe *attr.FieldError
		require.True(t, errors.As(res.Decode, &fe))
		assert.Equal(t, "value", fe.Field)
		assert.Equal(t, 1.0, res.Graph.MustNode("src").Attrs().Float("value"))
		assert.Equal(t, 0.5, res.Graph.MustNode("f").Attrs().Float("offset"))
		assert.Contains(t, logs.String(), "Ignoring unknown attribute.")
	})

	t.Run("unknown node type", func(t *testing.T) {
		m := chainModel()
		m.Nodes[1].Type = "mystery"
		_, err := Build(ctx, m, reg)
		assert.ErrorContains(t, err, `unknown node type "mystery"`)
	})

	t.Run("link errors are collected", func(t *testing.T) {
		m := chainModel()
		m.Nodes[1].Inputs["mask"] = nodeid.New("src", "nope")
		m.Nodes[2].Inputs["input"] = nodeid.New("pts", "points")
		_, err := Build(ctx, m, reg)
		require.Error(t, err)
		assert.ErrorIs(t, err, graph.ErrUnknownPort)
		assert.ErrorIs(t, err, graph.ErrCycle)
	})

	t.Run("invalid document", func(t *testing.T) {
		m := chainModel()
		m.Nodes[2].ID = "src"
		_, err := Build(ctx, m, reg)
		assert.ErrorContains(t, err, "already defined")
	})
}

func TestFromGraph(t *testing.T) {
	ctx, _ := testutil.Context(t)
	reg := registry.New(testutil.NewNodesModule())

	res, err := Build(ctx, chainModel(), reg)
	require.NoError(t, err)
	_, err = res.Graph.MustNode("f").SetAttr("offset", 3.0)
	require.NoError(t, err)
	require.NoError(t, res.Graph.Update(ctx))

	m, err := FromGraph(res.Graph)
	require.NoError(t, err)
	require.Len(t, m.Nodes, 3)
	assert.Equal(t, []string{"f", "pts", "src"}, []string{m.Nodes[0].ID, m.Nodes[1].ID, m.Nodes[2].ID})
	assert.Equal(t, nodeid.New("src", "output"), m.Nodes[0].Inputs["input"])
	assert.Equal(t, 3.0, m.Nodes[0].Attributes["offset"])

	again, err := Build(ctx, m, reg)
	require.NoError(t, err)
	require.NoError(t, again.Decode)
	require.NoError(t, again.Graph.Update(ctx))
	assert.Equal(t, res.Graph.Snapshot(), again.Graph.Snapshot())
}
