package testutil

import (
	"testing"

	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/registry"
)

// Graph pairs a graph with the registry its nodes come from.
type Graph struct {
	*graph.Graph
	t   *testing.T
	reg *registry.Registry
}

// NewGraph creates an empty graph with layout l and a registry holding
// the given modules.
func NewGraph(t *testing.T, l hmap.Layout, modules ...registry.Module) *Graph {
	t.Helper()
	return &Graph{Graph: graph.New(graph.WithLayout(l)), t: t, reg: registry.New(modules...)}
}

// Add instantiates a registered node type and fails the test on error.
func (g *Graph) Add(id, tag string) *graph.Node {
	g.t.Helper()
	nt, err := g.reg.MustLookup(tag)
	if err != nil {
		g.t.Fatalf("lookup %q: %v", tag, err)
	}
	n, err := g.AddNode(id, nt)
	if err != nil {
		g.t.Fatalf("add node %q: %v", id, err)
	}
	return n
}

// Connect links two ports and fails the test on error.
func (g *Graph) Connect(fromNode, fromPort, toNode, toPort string) {
	g.t.Helper()
	if _, err := g.Link(fromNode, fromPort, toNode, toPort); err != nil {
		g.t.Fatalf("link %s.%s -> %s.%s: %v", fromNode, fromPort, toNode, toPort, err)
	}
}

// Set assigns an attribute and fails the test on error.
func (g *Graph) Set(node, name string, v any) {
	g.t.Helper()
	if _, err := g.MustNode(node).SetAttr(name, v); err != nil {
		g.t.Fatalf("set %s.%s: %v", node, name, err)
	}
}

// HeightMap returns a heightmap output and fails the test on error.
func (g *Graph) HeightMap(node, port string) *hmap.HeightMap {
	g.t.Helper()
	buf, err := g.Output(node, port)
	if err != nil {
		g.t.Fatalf("output %s.%s: %v", node, port, err)
	}
	h, ok := buf.(*hmap.HeightMap)
	if !ok {
		g.t.Fatalf("output %s.%s is %T, not a heightmap", node, port, buf)
	}
	return h
}

// RequireOverlapConsistent fails the test when any tile disagrees with the
// owner of a shared sample.
func RequireOverlapConsistent(t *testing.T, h *hmap.HeightMap) {
	t.Helper()
	for _, tile := range h.Tiles {
		for y := tile.Bounds.Y0; y < tile.Bounds.Y1; y++ {
			for x := tile.Bounds.X0; x < tile.Bounds.X1; x++ {
				if got, want := tile.At(x-tile.Bounds.X0, y-tile.Bounds.Y0), h.At(x, y); got != want {
					t.Fatalf("tile %v disagrees with owner at (%d, %d): %g != %g", tile.Index, x, y, got, want)
				}
			}
		}
	}
}
