package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/terragridgo/internal/ctxlog"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/viewer"
)

// Run evaluates the graph and publishes the results. With a watch interval
// it keeps polling the graph document until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	hmap.SetWorkers(a.config.Workers)

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer()
		defer a.closeHealthcheckServer()
	}

	if a.config.ViewerURL != "" {
		pub, err := viewer.Dial(ctx, viewer.Options{URL: a.config.ViewerURL})
		if err != nil {
			return fmt.Errorf("failed to connect to viewer: %w", err)
		}
		a.publisher = pub
	}
	defer a.publisher.Close()

	a.logger.Info("🚀 Evaluating graph...", "graph", a.graph.ID(), "nodes", len(a.graph.Nodes()), "layout", a.graph.Layout().String())
	err := a.evaluate(ctx)

	if err == nil && a.config.SavePath != "" {
		if err := a.save(ctx, a.config.SavePath); err != nil {
			return err
		}
	}

	if a.config.Watch <= 0 {
		a.logger.Debug("App.Run method finished.")
		return err
	}
	if err != nil {
		// Watch mode keeps running so the document can be fixed.
		a.logger.Error("Evaluation failed, waiting for changes.", "error", err)
	}
	return a.watch(ctx)
}

// evaluate recomputes every dirty node and publishes what changed.
func (a *App) evaluate(ctx context.Context) error {
	report, err := a.graph.UpdateReport(ctx)
	if report != nil {
		events := viewer.Collect(a.view, report.Computed)
		if perr := a.publisher.Publish(ctx, events); perr != nil {
			a.logger.Warn("Failed to publish node updates.", "error", perr)
		}
		a.logger.Info("🏁 Evaluation finished.",
			"computed", report.Computed,
			"failed", report.Failed,
			"skipped", report.Skipped,
			"events", len(events))
	}
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	return nil
}
