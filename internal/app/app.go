package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/specialistvlad/terragridgo/internal/config"
	"github.com/specialistvlad/terragridgo/internal/ctxlog"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hclgraph"
	"github.com/specialistvlad/terragridgo/internal/registry"
	"github.com/specialistvlad/terragridgo/internal/view"
	"github.com/specialistvlad/terragridgo/internal/viewer"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loader     config.Loader
	writer     config.Writer
	registry   *registry.Registry
	model      *config.Model
	mu         sync.RWMutex // guards graph and view
	graph      *graph.Graph
	view       *view.View
	publisher  viewer.Publisher
	httpServer *http.Server
	// fingerprint identifies the graph documents last loaded.
	fingerprint string
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Without modules the core modules are registered.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules(cfg)
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "node_types", len(reg.Tags()))

	if err := reg.Validate(ctx); err != nil {
		// This is a programmer error in a module, so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	a := &App{
		ctx:       ctx,
		outW:      outW,
		logger:    logger,
		config:    cfg,
		loader:    loader,
		writer:    hclgraph.NewWriter(),
		registry:  reg,
		publisher: viewer.NopPublisher{},
	}

	model, g, err := a.load(ctx)
	if err != nil {
		// A failure to load the graph document is a fatal startup error.
		panic(fmt.Errorf("failed to load graph: %w", err))
	}
	a.model = model
	a.setGraph(g)
	a.fingerprint, _ = fingerprint(cfg.GraphPath)
	logger.Debug("Graph document loaded and built.", "nodes", len(model.Nodes))

	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Graph returns the current graph. A structural reload replaces it.
func (a *App) Graph() *graph.Graph {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.graph
}

// View returns the presentation records of the current graph.
func (a *App) View() *view.View {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.view
}

func (a *App) setGraph(g *graph.Graph) {
	v := view.New(g, nil)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.graph, a.view = g, v
}
