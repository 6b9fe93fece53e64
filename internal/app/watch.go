package app

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/config"
	"github.com/specialistvlad/terragridgo/internal/ctxlog"
	"github.com/specialistvlad/terragridgo/internal/fsutil"
	"github.com/specialistvlad/terragridgo/internal/hclgraph"
)

// watch polls the graph document and re-evaluates after every change.
func (a *App) watch(ctx context.Context) error {
	a.logger.Info("👀 Watching graph document for changes.", "path", a.config.GraphPath, "interval", a.config.Watch)
	ticker := time.NewTicker(a.config.Watch)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Watch stopped.")
			return nil
		case <-ticker.C:
		}

		fp, err := fingerprint(a.config.GraphPath)
		if err != nil {
			a.logger.Warn("Cannot read graph document.", "error", err)
			continue
		}
		if fp == a.fingerprint {
			continue
		}
		a.fingerprint = fp

		if err := a.reload(ctx); err != nil {
			a.logger.Error("Reload failed, keeping current graph.", "error", err)
			continue
		}
		if err := a.evaluate(ctx); err != nil {
			a.logger.Error("Evaluation failed, waiting for changes.", "error", err)
		}
	}
}

// reload applies a changed document. Attribute-only edits are applied in
// place so only the affected nodes and their consumers recompute; any
// structural edit rebuilds the graph.
func (a *App) reload(ctx context.Context) error {
	model, err := a.loader.Load(ctx, a.config.GraphPath)
	if err != nil {
		return err
	}

	if !sameStructure(a.model, model) {
		a.logger.Info("Graph structure changed, rebuilding.")
		g, err := a.build(ctx, model)
		if err != nil {
			return err
		}
		a.model = model
		a.setGraph(g)
		return nil
	}

	changed, err := a.applyAttributes(ctx, model)
	a.model = model
	a.logger.Info("Graph document reloaded.", "changed_attributes", changed)
	return err
}

// applyAttributes decodes every node's attributes into a fresh bag and
// assigns the values through the graph, which dirties what changed.
func (a *App) applyAttributes(ctx context.Context, model *config.Model) (int, error) {
	logger := ctxlog.FromContext(ctx)
	var result *multierror.Error
	changed := 0

	for _, n := range model.Nodes {
		gn := a.graph.MustNode(n.ID)
		bag := gn.NodeType().Attributes()
		if err := bag.Deserialize(n.Attributes); err != nil {
			logger.Warn("Some attributes reverted to their defaults.", "node", n.ID, "error", err)
			result = multierror.Append(result, fmt.Errorf("node %q: %w", n.ID, err))
		}
		for _, name := range bag.Keys() {
			at, _ := bag.Get(name)
			ok, err := gn.SetAttr(name, settable(at))
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			if ok {
				changed++
				logger.Debug("Attribute changed.", "node", n.ID, "attribute", name)
			}
		}
	}
	return changed, result.ErrorOrNil()
}

// settable returns the value Set accepts for an attribute.
func settable(at attr.Attribute) any {
	if e, ok := at.(*attr.MapEnum); ok {
		return e.Choice()
	}
	return at.Value()
}

func sameStructure(a, b *config.Model) bool {
	return cmp.Equal(a, b,
		cmpopts.IgnoreFields(config.Node{}, "Attributes", "Source"),
		cmpopts.EquateEmpty())
}

// fingerprint hashes the content of every graph document under path.
func fingerprint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	files := []string{path}
	if info.IsDir() {
		if files, err = fsutil.Collect(files, hclgraph.Extension); err != nil {
			return "", err
		}
	}

	h := fnv.New64a()
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(h, "%s\x00%d\x00", f, len(data))
		h.Write(data)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
