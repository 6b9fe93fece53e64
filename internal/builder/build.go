package builder

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/terragridgo/internal/config"
	"github.com/specialistvlad/terragridgo/internal/ctxlog"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/registry"
)

// Result is the outcome of a successful build.
type Result struct {
	Graph *graph.Graph
	// Decode holds the attribute fields that could not be applied, or nil.
	Decode error
}

// Build constructs a graph from a document model.
func Build(ctx context.Context, model *config.Model, r *registry.Registry) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")

	if err := model.Validate(); err != nil {
		return nil, err
	}

	var opts []graph.Option
	if !model.Layout.IsZero() {
		opts = append(opts, graph.WithLayout(model.Layout))
	}
	g := graph.New(opts...)

	// First pass: create all nodes.
	if err := createNodes(ctx, model, g, r); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node creation complete.", "node_count", len(model.Nodes))

	// Second pass: decode attributes. Failures are reported, not fatal.
	decodeErr := decodeAttributes(ctx, model, g)

	// Third pass: link inputs.
	if err := linkNodes(ctx, model, g); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.", "link_count", len(g.Links()))

	logger.Info("Build: Graph construction successful.", "graph", g.ID(), "nodes", len(model.Nodes))
	return &Result{Graph: g, Decode: decodeErr}, nil
}

func createNodes(ctx context.Context, model *config.Model, g *graph.Graph, r *registry.Registry) error {
	var result *multierror.Error
	for _, n := range model.Nodes {
		t, err := r.MustLookup(n.Type)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: node %q: %w", n.Source, n.ID, err))
			continue
		}
		if _, err := g.AddNode(n.ID, t); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", n.Source, err))
			continue
		}
		ctxlog.FromContext(ctx).Debug("Build: Node created.", "node", n.ID, "type", n.Type)
	}
	return result.ErrorOrNil()
}

func decodeAttributes(ctx context.Context, model *config.Model, g *graph.Graph) error {
	logger := ctxlog.FromContext(ctx)
	var result *multierror.Error

	for _, n := range model.Nodes {
		gn := g.MustNode(n.ID)
		bag := gn.Attrs()
		for name := range n.Attributes {
			if _, ok := bag.Get(name); !ok {
				logger.Warn("Ignoring unknown attribute.", "node", n.ID, "type", n.Type, "attribute", name)
			}
		}
		if err := bag.Deserialize(n.Attributes); err != nil {
			logger.Warn("Some attributes kept their defaults.", "node", n.ID, "error", err)
			result = multierror.Append(result, fmt.Errorf("node %q: %w", n.ID, err))
		}
	}
	return result.ErrorOrNil()
}

func linkNodes(ctx context.Context, model *config.Model, g *graph.Graph) error {
	logger := ctxlog.FromContext(ctx)
	var result *multierror.Error

	for _, n := range model.Nodes {
		for _, port := range n.InputPorts() {
			from := n.Inputs[port]
			l, err := g.Link(from.Node, from.Port, n.ID, port)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: input %q of node %q: %w", n.Source, port, n.ID, err))
				continue
			}
			logger.Debug("Build: Linked.", "link", l.String(), "id", l.ID)
		}
	}
	return result.ErrorOrNil()
}
