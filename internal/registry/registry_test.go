package registry_test

import (
	"context"
	"testing"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/registry"
	"github.com/specialistvlad/terragridgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nop(context.Context, *graph.IO) error { return nil }

func nodeType(tag string) *graph.NodeType {
	return &graph.NodeType{
		Tag:        tag,
		Category:   "Test",
		Ports:      registry.FilterPorts(),
		Attributes: func() *attr.Bag { return attr.NewBag() },
		New:        func() graph.Operator { return graph.OperatorFunc(nop) },
	}
}

type moduleFunc func(r *registry.Registry)

func (f moduleFunc) Register(r *registry.Registry) { f(r) }

func with(types ...*graph.NodeType) moduleFunc {
	return func(r *registry.Registry) {
		for _, t := range types {
			r.RegisterNodeType(t)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := registry.New(with(nodeType("perlin"), nodeType("blend")), with(nodeType("export")))

	t.Run("tags are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"blend", "export", "perlin"}, r.Tags())
		assert.Equal(t, map[string][]string{"Test": {"blend", "export", "perlin"}}, r.Categories())
	})

	t.Run("lookup", func(t *testing.T) {
		nt, ok := r.Lookup("perlin")
		require.True(t, ok)
		assert.Equal(t, "perlin", nt.Tag)

		_, ok = r.Lookup("voronoi")
		assert.False(t, ok)

		_, err := r.MustLookup("voronoi")
		assert.EqualError(t, err, `unknown node type "voronoi" (known: [blend export perlin])`)
	})

	t.Run("duplicate tags panic", func(t *testing.T) {
		assert.PanicsWithValue(t, "node type 'perlin' already registered", func() {
			r.RegisterNodeType(nodeType("perlin"))
		})
		assert.Panics(t, func() { r.RegisterNodeType(&graph.NodeType{}) })
	})
}

func TestValidate(t *testing.T) {
	ctx, logs := testutil.Context(t)

	t.Run("well formed types pass", func(t *testing.T) {
		require.NoError(t, registry.New(with(nodeType("a"), nodeType("b"))).Validate(ctx))
		assert.Contains(t, logs.String(), "Registry validated.")
	})

	shared := attr.NewBag()
	tests := []struct {
		name   string
		mutate func(nt *graph.NodeType)
		want   string
	}{
		{
			name:   "empty category",
			mutate: func(nt *graph.NodeType) { nt.Category = "" },
			want:   "node type 'x': category is empty",
		},
		{
			name:   "no factory",
			mutate: func(nt *graph.NodeType) { nt.New = nil },
			want:   "node type 'x': no operator factory",
		},
		{
			name: "duplicate port",
			mutate: func(nt *graph.NodeType) {
				nt.Ports = append(nt.Ports, graph.Input("input", graph.DataHeightMap))
			},
			want: "node type 'x': port 'input' declared twice",
		},
		{
			name: "optional output",
			mutate: func(nt *graph.NodeType) {
				nt.Ports = append(nt.Ports, graph.PortSpec{Name: "extra", Direction: graph.Out, Type: graph.DataArray, Optional: true})
			},
			want: "node type 'x': out-port 'extra' cannot be optional",
		},
		{
			name:   "no outputs",
			mutate: func(nt *graph.NodeType) { nt.Ports = nt.Ports[:2] },
			want:   "node type 'x': declares no out-port",
		},
		{
			name:   "shared attribute bag",
			mutate: func(nt *graph.NodeType) { nt.Attributes = func() *attr.Bag { return shared } },
			want:   "node type 'x': attribute factory must return a fresh bag",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nt := nodeType("x")
			tc.mutate(nt)
			err := registry.New(with(nt)).Validate(ctx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "registry validation failed")
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSharedPorts(t *testing.T) {
	names := func(ps []graph.PortSpec) (in, optional, out []string) {
		for _, p := range ps {
			switch {
			case p.Direction == graph.Out:
				out = append(out, p.Name)
			case p.Optional:
				optional = append(optional, p.Name)
			default:
				in = append(in, p.Name)
			}
		}
		return in, optional, out
	}

	in, optional, out := names(registry.FilterPorts())
	assert.Equal(t, []string{"input"}, in)
	assert.Equal(t, []string{"mask"}, optional)
	assert.Equal(t, []string{"output"}, out)

	in, optional, out = names(registry.PrimitivePorts())
	assert.Empty(t, in)
	assert.Equal(t, []string{"dx", "dy"}, optional)
	assert.Equal(t, []string{"output"}, out)
}
