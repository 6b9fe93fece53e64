package graph

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/terragridgo/internal/ctxlog"
)

// Report summarizes one evaluation.
type Report struct {
	Computed []string
	Failed   []string
	Skipped  []string
	Elapsed  time.Duration
}

// Update computes every dirty node once, upstream first. A node whose
// inputs are not all clean is skipped and stays dirty. Failures are
// collected and returned together.
func (g *Graph) Update(ctx context.Context) error {
	_, err := g.UpdateReport(ctx)
	return err
}

// UpdateReport is Update that also returns what was computed.
func (g *Graph) UpdateReport(ctx context.Context) (*Report, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	order, err := g.topoOrder(g.sortedNodes())
	if err != nil {
		return nil, err
	}
	return g.evaluate(ctx, order)
}

// UpdateNode marks id dirty and recomputes it and every node downstream of
// it, once each, in dependency order. Other nodes are not touched.
func (g *Graph) UpdateNode(ctx context.Context, id string) error {
	_, err := g.UpdateNodeReport(ctx, id)
	return err
}

// UpdateNodeReport is UpdateNode that also returns what was computed.
func (g *Graph) UpdateNodeReport(ctx context.Context, id string) (*Report, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("update node: %w: %q", ErrUnknownNode, id)
	}
	g.markDirty(n)
	order, err := g.topoOrder(append([]*Node{n}, g.downstream(n)...))
	if err != nil {
		return nil, err
	}
	return g.evaluate(ctx, order)
}

// topoOrder sorts nodes with Kahn's algorithm, considering only links
// between members of the set. Ready nodes are taken in id order.
func (g *Graph) topoOrder(nodes []*Node) ([]*Node, error) {
	member := make(map[*Node]bool, len(nodes))
	for _, n := range nodes {
		member[n] = true
	}
	indegree := make(map[*Node]int, len(nodes))
	for _, n := range nodes {
		for _, p := range n.ports {
			if p.upstream != nil && member[p.upstream.node] {
				indegree[n]++
			}
		}
	}

	var ready []*Node
	for _, n := range nodes {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}
	byID := func(a, b *Node) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	}
	slices.SortFunc(ready, byID)

	order := make([]*Node, 0, len(nodes))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)

		for _, p := range n.ports {
			for _, in := range p.consumer {
				if !member[in.node] {
					continue
				}
				indegree[in.node]--
				if indegree[in.node] == 0 {
					ready = append(ready, in.node)
				}
			}
		}
		slices.SortFunc(ready, byID)
	}
	if len(order) != len(nodes) {
		return nil, fmt.Errorf("update: %w among %d nodes", ErrCycle, len(nodes)-len(order))
	}
	return order, nil
}

// evaluate computes the dirty nodes of a topologically ordered list.
func (g *Graph) evaluate(ctx context.Context, order []*Node) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	report := &Report{}
	var result *multierror.Error

	for _, n := range order {
		if n.state == Clean {
			continue
		}
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, err)
			break
		}
		if dep := staleInput(n); dep != nil {
			n.err = dep
			report.Skipped = append(report.Skipped, n.id)
			result = multierror.Append(result, dep)
			logger.Debug("Skipping node with stale input.", "node", n.id, "port", dep.Port, "upstream", dep.Upstream)
			continue
		}

		logger.Debug("Computing node.", "node", n.id, "type", n.typ.Tag)
		began := time.Now()
		if err := n.compute(ctx); err != nil {
			report.Failed = append(report.Failed, n.id)
			result = multierror.Append(result, err)
			logger.Error("Node failed.", "node", n.id, "type", n.typ.Tag, "error", err)
			continue
		}
		report.Computed = append(report.Computed, n.id)
		logger.Debug("Node computed.", "node", n.id, "duration", time.Since(began))
	}

	report.Elapsed = time.Since(start)
	sort.Strings(report.Skipped)
	logger.Info("Graph evaluated.",
		"graph", g.id,
		"computed", len(report.Computed),
		"failed", len(report.Failed),
		"skipped", len(report.Skipped),
		"duration", report.Elapsed)
	return report, result.ErrorOrNil()
}

// staleInput returns a DependencyError for the first linked input whose
// upstream node is not clean.
func staleInput(n *Node) *DependencyError {
	for _, p := range n.ports {
		if p.upstream != nil && p.upstream.node.state != Clean {
			return &DependencyError{Node: n.id, Port: p.spec.Name, Upstream: p.upstream.node.id}
		}
	}
	return nil
}
