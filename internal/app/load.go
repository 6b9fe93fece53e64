package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/terragridgo/internal/builder"
	"github.com/specialistvlad/terragridgo/internal/config"
	"github.com/specialistvlad/terragridgo/internal/ctxlog"
	"github.com/specialistvlad/terragridgo/internal/graph"
)

// load reads the graph documents and builds a fresh graph from them.
func (a *App) load(ctx context.Context) (*config.Model, *graph.Graph, error) {
	ctxlog.FromContext(ctx).Debug("Loading graph document...", "graph_path", a.config.GraphPath)

	model, err := a.loader.Load(ctx, a.config.GraphPath)
	if err != nil {
		return nil, nil, err
	}
	g, err := a.build(ctx, model)
	if err != nil {
		return nil, nil, err
	}
	return model, g, nil
}

// build turns a model into a graph. Attribute decode failures are logged
// and do not fail the build.
func (a *App) build(ctx context.Context, model *config.Model) (*graph.Graph, error) {
	res, err := builder.Build(ctx, model, a.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	if res.Decode != nil {
		ctxlog.FromContext(ctx).Warn("Graph loaded with attribute errors.", "error", res.Decode)
	}
	return res.Graph, nil
}
