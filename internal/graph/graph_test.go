package graph_test

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/registry"
	"github.com/specialistvlad/terragridgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx   context.Context
	g     *graph.Graph
	reg   *registry.Registry
	calls *testutil.Calls
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx, _ := testutil.Context(t)
	mod := testutil.NewNodesModule()
	return &fixture{
		ctx:   ctx,
		g:     graph.New(graph.WithLayout(testutil.Layout)),
		reg:   registry.New(mod),
		calls: mod.Calls,
	}
}

func (f *fixture) add(t *testing.T, id, tag string) *graph.Node {
	t.Helper()
	nt, ok := f.reg.Lookup(tag)
	require.True(t, ok, "unknown tag %s", tag)
	n, err := f.g.AddNode(id, nt)
	require.NoError(t, err)
	return n
}

func (f *fixture) link(t *testing.T, from, fromPort, to, toPort string) *graph.Link {
	t.Helper()
	l, err := f.g.Link(from, fromPort, to, toPort)
	require.NoError(t, err)
	return l
}

// chain builds src -> f1 -> f2 plus an unrelated other -> f3.
func (f *fixture) chain(t *testing.T) {
	t.Helper()
	f.add(t, "src", "test_source")
	f.add(t, "f1", "test_filter")
	f.add(t, "f2", "test_filter")
	f.add(t, "other", "test_source")
	f.add(t, "f3", "test_filter")
	f.link(t, "src", "output", "f1", "input")
	f.link(t, "f1", "output", "f2", "input")
	f.link(t, "other", "output", "f3", "input")
}

func TestAddNode(t *testing.T) {
	f := newFixture(t)
	n := f.add(t, "src", "test_source")
	assert.Equal(t, graph.Dirty, n.State())
	assert.Equal(t, "test_source", n.Type())

	_, err := f.g.AddNode("src", n.NodeType())
	assert.ErrorIs(t, err, graph.ErrDuplicateNode)

	auto, err := f.g.AddNode("", n.NodeType())
	require.NoError(t, err)
	assert.Contains(t, auto.ID(), "test_source_")

	p, ok := n.Port("output")
	require.True(t, ok)
	got, ok := f.g.PortByHashID(p.HashID())
	require.True(t, ok)
	assert.Same(t, p, got)
}

func TestLink(t *testing.T) {
	t.Run("link id is the in-port hash id", func(t *testing.T) {
		f := newFixture(t)
		f.add(t, "src", "test_source")
		dst := f.add(t, "dst", "test_filter")
		l := f.link(t, "src", "output", "dst", "input")

		in, _ := dst.Port("input")
		assert.Equal(t, in.HashID(), l.ID)
		assert.Equal(t, l.ToHash, l.ID)
		assert.True(t, in.IsConnected())
		assert.Equal(t, "src", in.Upstream().Node().ID())
		assert.Equal(t, *l, f.g.MustLink(l.ID))
	})

	t.Run("rejected links leave the graph unchanged", func(t *testing.T) {
		f := newFixture(t)
		f.add(t, "src", "test_source")
		f.add(t, "src2", "test_source")
		f.add(t, "a", "test_filter")
		f.add(t, "b", "test_filter")
		f.add(t, "c", "test_filter")
		f.add(t, "pts", "test_points")
		f.link(t, "src", "output", "a", "input")
		f.link(t, "a", "output", "b", "input")
		f.link(t, "b", "output", "c", "input")
		before := f.g.Links()

		tests := []struct {
			name                       string
			from, fromPort, to, toPort string
			want                       error
		}{
			{"unknown node", "nope", "output", "a", "mask", graph.ErrUnknownNode},
			{"unknown port", "src", "nope", "a", "mask", graph.ErrUnknownPort},
			{"in to out", "a", "input", "src2", "output", graph.ErrDirection},
			{"out to out", "src", "output", "src2", "output", graph.ErrDirection},
			{"type mismatch", "pts", "points", "c", "mask", graph.ErrTypeMismatch},
			{"single fan-in", "src2", "output", "a", "input", graph.ErrAlreadyLinked},
			{"cycle", "c", "output", "a", "mask", graph.ErrCycle},
			{"self loop", "a", "output", "a", "mask", graph.ErrCycle},
			{"own in-port to own out-port", "a", "input", "a", "output", graph.ErrDirection},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				_, err := f.g.Link(tc.from, tc.fromPort, tc.to, tc.toPort)
				assert.ErrorIs(t, err, tc.want)
				assert.Equal(t, before, f.g.Links())
			})
		}
	})

	t.Run("fan-out is allowed", func(t *testing.T) {
		f := newFixture(t)
		src := f.add(t, "src", "test_source")
		f.add(t, "a", "test_filter")
		f.add(t, "b", "test_filter")
		f.link(t, "src", "output", "a", "input")
		f.link(t, "src", "output", "b", "mask")
		out, _ := src.Port("output")
		assert.Len(t, out.Consumers(), 2)
	})
}

func TestUnlink(t *testing.T) {
	f := newFixture(t)
	f.chain(t)
	require.NoError(t, f.g.Update(f.ctx))

	assert.ErrorIs(t, f.g.Unlink("other", "output", "f1", "input"), graph.ErrNotLinked)

	require.NoError(t, f.g.Unlink("src", "output", "f1", "input"))
	assert.Equal(t, graph.Dirty, f.g.MustNode("f1").State())
	assert.Equal(t, graph.Dirty, f.g.MustNode("f2").State())
	assert.Equal(t, graph.Clean, f.g.MustNode("src").State())
	in, _ := f.g.MustNode("f1").Port("input")
	assert.False(t, in.IsConnected())

	l := f.link(t, "src", "output", "f1", "input")
	require.NoError(t, f.g.UnlinkByID(l.ID))
	_, ok := f.g.LinkByID(l.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, f.g.UnlinkByID(l.ID), graph.ErrNotLinked)
	assert.Panics(t, func() { f.g.MustLink(l.ID) })
}

func TestUpdate(t *testing.T) {
	t.Run("computes every dirty node once in dependency order", func(t *testing.T) {
		f := newFixture(t)
		f.chain(t)
		require.NoError(t, f.g.Update(f.ctx))

		for _, id := range []string{"src", "f1", "f2", "other", "f3"} {
			assert.Equal(t, 1, f.calls.Count(id), id)
			assert.Equal(t, graph.Clean, f.g.MustNode(id).State(), id)
		}
		order := f.calls.Order()
		assert.Less(t, indexOf(order, "src"), indexOf(order, "f1"))
		assert.Less(t, indexOf(order, "f1"), indexOf(order, "f2"))

		out, err := f.g.Output("f2", "output")
		require.NoError(t, err)
		lo, hi := out.(*hmap.HeightMap).MinMax()
		assert.EqualValues(t, 3, lo)
		assert.EqualValues(t, 3, hi)

		f.calls.Reset()
		require.NoError(t, f.g.Update(f.ctx))
		assert.Empty(t, f.calls.Order(), "clean graph recomputes nothing")
	})

	t.Run("an attribute edit recomputes exactly its downstream", func(t *testing.T) {
		f := newFixture(t)
		f.chain(t)
		require.NoError(t, f.g.Update(f.ctx))
		before := f.g.Snapshot()
		f.calls.Reset()

		changed, err := f.g.MustNode("f1").SetAttr("offset", 5.0)
		require.NoError(t, err)
		require.True(t, changed)
		assert.Equal(t, graph.Clean, f.g.MustNode("src").State())
		assert.Equal(t, graph.Dirty, f.g.MustNode("f2").State())

		require.NoError(t, f.g.Update(f.ctx))
		after := f.g.Snapshot()

		assert.Equal(t, []string{"f1", "f2"}, f.calls.Order())
		for _, id := range []string{"src", "other", "f3"} {
			assert.Equal(t, before[id], after[id], "%s must be byte-identical", id)
		}
		for _, id := range []string{"f1", "f2"} {
			assert.NotEqual(t, before[id], after[id], "%s must change", id)
		}
	})

	t.Run("force update dirties the node and its downstream only", func(t *testing.T) {
		f := newFixture(t)
		f.chain(t)
		require.NoError(t, f.g.Update(f.ctx))
		before := f.g.Snapshot()
		f.calls.Reset()

		f.g.MustNode("f1").ForceUpdate()
		for _, id := range []string{"f1", "f2"} {
			assert.Equal(t, graph.Dirty, f.g.MustNode(id).State(), id)
		}
		for _, id := range []string{"src", "other", "f3"} {
			assert.Equal(t, graph.Clean, f.g.MustNode(id).State(), id)
		}

		require.NoError(t, f.g.Update(f.ctx))
		assert.Equal(t, []string{"f1", "f2"}, f.calls.Order())
		assert.Equal(t, before, f.g.Snapshot(), "same inputs give the same buffers")
	})

	t.Run("setting an unchanged value keeps nodes clean", func(t *testing.T) {
		f := newFixture(t)
		f.chain(t)
		require.NoError(t, f.g.Update(f.ctx))

		changed, err := f.g.MustNode("f1").SetAttr("offset", 1.0)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, graph.Clean, f.g.MustNode("f2").State())

		_, err = f.g.MustNode("f1").SetAttr("offset", "high")
		assert.Error(t, err)
	})

	t.Run("optional inputs may stay unlinked", func(t *testing.T) {
		f := newFixture(t)
		f.add(t, "src", "test_source")
		f.add(t, "masked", "test_filter")
		f.add(t, "mask", "test_source")
		f.add(t, "plain", "test_filter")
		f.link(t, "src", "output", "masked", "input")
		f.link(t, "mask", "output", "masked", "mask")
		f.link(t, "src", "output", "plain", "input")
		_, err := f.g.MustNode("mask").SetAttr("value", 0.0)
		require.NoError(t, err)

		require.NoError(t, f.g.Update(f.ctx))
		masked, _ := f.g.Output("masked", "output")
		plain, _ := f.g.Output("plain", "output")
		lo, _ := masked.(*hmap.HeightMap).MinMax()
		assert.EqualValues(t, 1, lo, "zero mask cancels the offset")
		lo, _ = plain.(*hmap.HeightMap).MinMax()
		assert.EqualValues(t, 2, lo)
	})

	t.Run("unlinked required input is reported and the node stays dirty", func(t *testing.T) {
		f := newFixture(t)
		f.add(t, "lonely", "test_filter")

		err := f.g.Update(f.ctx)
		var dep *graph.DependencyError
		require.True(t, errors.As(err, &dep))
		assert.Equal(t, "lonely", dep.Node)
		assert.Equal(t, "input", dep.Port)
		assert.Equal(t, graph.Dirty, f.g.MustNode("lonely").State())
		assert.Zero(t, f.calls.Count("lonely"))
	})

	t.Run("failed nodes stay dirty and a retry succeeds", func(t *testing.T) {
		f := newFixture(t)
		f.chain(t)
		_, err := f.g.MustNode("f1").SetAttr("fail", true)
		require.NoError(t, err)

		report, err := f.g.UpdateReport(f.ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, testutil.ErrInjected)
		var ce *graph.ComputeError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "f1", ce.Node)

		assert.Equal(t, []string{"f1"}, report.Failed)
		assert.Equal(t, []string{"f2"}, report.Skipped)
		assert.Equal(t, graph.Dirty, f.g.MustNode("f1").State())
		assert.Equal(t, graph.Dirty, f.g.MustNode("f2").State())
		assert.Equal(t, graph.Clean, f.g.MustNode("f3").State())
		assert.ErrorIs(t, f.g.MustNode("f1").Err(), testutil.ErrInjected)
		assert.Zero(t, f.calls.Count("f2"))

		_, err = f.g.MustNode("f1").SetAttr("fail", false)
		require.NoError(t, err)
		f.calls.Reset()
		require.NoError(t, f.g.Update(f.ctx))
		assert.Equal(t, []string{"f1", "f2"}, f.calls.Order())
		assert.NoError(t, f.g.MustNode("f1").Err())
	})

	t.Run("cancelled context stops evaluation", func(t *testing.T) {
		f := newFixture(t)
		f.chain(t)
		ctx, cancel := context.WithCancel(f.ctx)
		cancel()
		err := f.g.Update(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, f.calls.Order())
	})
}

func TestUpdateNode(t *testing.T) {
	t.Run("reconvergent paths compute the shared node once", func(t *testing.T) {
		f := newFixture(t)
		f.add(t, "src", "test_source")
		f.add(t, "left", "test_filter")
		f.add(t, "right", "test_filter")
		f.add(t, "join", "test_mix")
		f.add(t, "bystander", "test_source")
		f.link(t, "src", "output", "left", "input")
		f.link(t, "src", "output", "right", "input")
		f.link(t, "left", "output", "join", "a")
		f.link(t, "right", "output", "join", "b")
		require.NoError(t, f.g.Update(f.ctx))
		f.calls.Reset()

		require.NoError(t, f.g.UpdateNode(f.ctx, "src"))
		order := f.calls.Order()
		assert.ElementsMatch(t, []string{"src", "left", "right", "join"}, order)
		assert.Equal(t, 1, f.calls.Count("join"))
		assert.Equal(t, "src", order[0])
		assert.Equal(t, "join", order[3])
		assert.Zero(t, f.calls.Count("bystander"))

		out, _ := f.g.Output("join", "output")
		lo, hi := out.(*hmap.HeightMap).MinMax()
		assert.EqualValues(t, 4, lo)
		assert.EqualValues(t, 4, hi)
	})

	t.Run("recomputes a clean node on request", func(t *testing.T) {
		f := newFixture(t)
		f.chain(t)
		require.NoError(t, f.g.Update(f.ctx))
		f.calls.Reset()

		require.NoError(t, f.g.UpdateNode(f.ctx, "f2"))
		assert.Equal(t, []string{"f2"}, f.calls.Order())
	})

	t.Run("dirty upstream outside the set blocks the node", func(t *testing.T) {
		f := newFixture(t)
		f.chain(t)
		err := f.g.UpdateNode(f.ctx, "f1")
		var dep *graph.DependencyError
		require.True(t, errors.As(err, &dep))
		assert.Equal(t, "src", dep.Upstream)
		assert.Zero(t, f.calls.Count("src"))
	})

	t.Run("unknown node", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.g.UpdateNode(f.ctx, "ghost"), graph.ErrUnknownNode)
	})
}

func TestRemoveNode(t *testing.T) {
	f := newFixture(t)
	f.chain(t)
	require.NoError(t, f.g.Update(f.ctx))
	f1In, _ := f.g.MustNode("f1").Port("input")
	hash := f1In.HashID()

	require.NoError(t, f.g.RemoveNode("f1"))

	_, ok := f.g.Node("f1")
	assert.False(t, ok)
	_, ok = f.g.PortByHashID(hash)
	assert.False(t, ok)
	for _, l := range f.g.Links() {
		assert.NotEqual(t, "f1", l.FromNode)
		assert.NotEqual(t, "f1", l.ToNode)
	}
	assert.Equal(t, graph.Dirty, f.g.MustNode("f2").State())
	src, _ := f.g.MustNode("src").Port("output")
	assert.False(t, src.IsConnected())

	err := f.g.Update(f.ctx)
	var dep *graph.DependencyError
	require.True(t, errors.As(err, &dep))
	assert.Equal(t, "f2", dep.Node)

	assert.ErrorIs(t, f.g.RemoveNode("f1"), graph.ErrUnknownNode)
	assert.Panics(t, func() { f.g.MustNode("f1") })
}

func TestDownstreamAndSnapshot(t *testing.T) {
	f := newFixture(t)
	f.chain(t)
	f.add(t, "pts", "test_points")
	f.link(t, "f2", "output", "pts", "input")

	ids, err := f.g.Downstream("src")
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f2", "pts"}, ids)

	require.NoError(t, f.g.Update(f.ctx))
	snap := f.g.Snapshot()
	assert.Len(t, snap, 6)
	assert.Contains(t, snap["pts"], "points")

	buf, err := f.g.Output("pts", "points")
	require.NoError(t, err)
	assert.Equal(t, 12, buf.(*hmap.Cloud).Len())

	_, err = f.g.Output("f1", "input")
	assert.ErrorIs(t, err, graph.ErrDirection)
}

func TestSetLayout(t *testing.T) {
	f := newFixture(t)
	f.chain(t)
	require.NoError(t, f.g.Update(f.ctx))

	l := testutil.Layout
	l.Tiling = hmap.V2(1, 1)
	require.NoError(t, f.g.SetLayout(l))
	for _, n := range f.g.Nodes() {
		assert.Equal(t, graph.Dirty, n.State())
	}
	require.NoError(t, f.g.Update(f.ctx))
	out, _ := f.g.Output("f2", "output")
	assert.Len(t, out.(*hmap.HeightMap).Tiles, 1)

	assert.Error(t, f.g.SetLayout(hmap.Layout{}))
}

func indexOf(s []string, v string) int {
	for k, x := range s {
		if x == v {
			return k
		}
	}
	return -1
}
