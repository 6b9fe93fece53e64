package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/terragridgo/internal/ctxlog"
	"github.com/specialistvlad/terragridgo/internal/graph"
)

// Validate checks every registered node type for structural problems.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, tag := range r.Tags() {
		t := r.types[tag]
		if t.Category == "" {
			errs = append(errs, fmt.Sprintf("node type '%s': category is empty", tag))
		}
		if t.New == nil {
			errs = append(errs, fmt.Sprintf("node type '%s': no operator factory", tag))
		}

		seen := make(map[string]bool)
		outputs := 0
		for _, p := range t.Ports {
			if p.Name == "" {
				errs = append(errs, fmt.Sprintf("node type '%s': port with empty name", tag))
			}
			if seen[p.Name] {
				errs = append(errs, fmt.Sprintf("node type '%s': port '%s' declared twice", tag, p.Name))
			}
			seen[p.Name] = true
			if p.Direction == graph.Out {
				outputs++
				if p.Optional {
					errs = append(errs, fmt.Sprintf("node type '%s': out-port '%s' cannot be optional", tag, p.Name))
				}
			}
		}
		if outputs == 0 {
			errs = append(errs, fmt.Sprintf("node type '%s': declares no out-port", tag))
		}

		if t.Attributes != nil {
			a, b := t.Attributes(), t.Attributes()
			if a == nil || b == nil {
				errs = append(errs, fmt.Sprintf("node type '%s': attribute factory returned nil", tag))
			} else if a == b {
				errs = append(errs, fmt.Sprintf("node type '%s': attribute factory must return a fresh bag", tag))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validated.", "node_types", len(r.types))
	return nil
}
