package app

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/terragridgo/internal/builder"
)

// save writes the current graph, with every attribute spelled out, as a
// single graph document.
func (a *App) save(ctx context.Context, path string) error {
	model, err := builder.FromGraph(a.Graph())
	if err != nil {
		return fmt.Errorf("failed to capture graph: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create graph document: %w", err)
	}
	if err := a.writer.Write(ctx, f, model); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close graph document: %w", err)
	}
	a.logger.Info("Graph document saved.", "path", path, "nodes", len(model.Nodes))
	return nil
}
