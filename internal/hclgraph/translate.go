// This file contains the logic for translating HCL schema structs into the
// format-agnostic graph model defined in the config package.

package hclgraph

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/config"
	"github.com/specialistvlad/terragridgo/internal/ctxlog"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// nodeRoot is the traversal root used to reference node outputs.
const nodeRoot = "node"

// translateLayout evaluates the layout block. Omitted fields keep the
// values of graph.DefaultLayout.
func translateLayout(ctx context.Context, b *layoutBlock) (hmap.Layout, error) {
	l := graph.DefaultLayout
	logger := ctxlog.FromContext(ctx)

	pair := func(name string, expr hcl.Expression, dst *hmap.Vec2[int]) error {
		if !isExprDefined(expr) {
			logger.Debug("Layout field omitted, using default.", "field", name)
			return nil
		}
		v, diags := expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("layout %s: %w", name, diags)
		}
		v, err := convert.Convert(v, cty.List(cty.Number))
		if err != nil {
			return fmt.Errorf("layout %s: %w", name, err)
		}
		var xy []int
		if err := gocty.FromCtyValue(v, &xy); err != nil {
			return fmt.Errorf("layout %s: %w", name, err)
		}
		if len(xy) != 2 {
			return fmt.Errorf("layout %s: expected 2 values, got %d", name, len(xy))
		}
		*dst = hmap.V2(xy[0], xy[1])
		return nil
	}

	if err := pair("shape", b.Shape, &l.Shape); err != nil {
		return hmap.Layout{}, err
	}
	if err := pair("tiling", b.Tiling, &l.Tiling); err != nil {
		return hmap.Layout{}, err
	}
	if isExprDefined(b.Overlap) {
		v, diags := b.Overlap.Value(nil)
		if diags.HasErrors() {
			return hmap.Layout{}, fmt.Errorf("layout overlap: %w", diags)
		}
		if err := gocty.FromCtyValue(v, &l.Overlap); err != nil {
			return hmap.Layout{}, fmt.Errorf("layout overlap: %w", err)
		}
	}
	return l, l.Validate()
}

// translateNode converts the HCL node schema into the agnostic model.
func translateNode(ctx context.Context, file string, b *nodeBlock) (*config.Node, error) {
	logger := ctxlog.FromContext(ctx).With("node_type", b.Type, "node_id", b.ID)
	logger.Debug("Translating HCL node to internal config model.")

	n := &config.Node{
		Type:       b.Type,
		ID:         b.ID,
		Attributes: attr.Document{},
		Inputs:     make(map[string]nodeid.Address),
		Source:     file,
	}

	for name, a := range justAttributes(b.Attributes) {
		v, diags := a.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%s: attribute %q of node %q: %w", n.Source, name, b.ID, diags)
		}
		native, err := ctyToNative(v)
		if err != nil {
			return nil, fmt.Errorf("%s: attribute %q of node %q: %w", n.Source, name, b.ID, err)
		}
		n.Attributes[name] = native
	}

	for port, a := range justAttributes(b.Inputs) {
		addr, err := addressFromExpr(a.Expr)
		if err != nil {
			return nil, fmt.Errorf("%s: input %q of node %q: %w", a.Range, port, b.ID, err)
		}
		n.Inputs[port] = addr
		logger.Debug("Found input link.", "port", port, "from", addr.String())
	}
	return n, nil
}

func justAttributes(b *bodyBlock) hcl.Attributes {
	if b == nil || b.Body == nil {
		return nil
	}
	attrs, _ := b.Body.JustAttributes()
	return attrs
}

// addressFromExpr extracts the `node.<id>.<port>` reference of an input.
func addressFromExpr(expr hcl.Expression) (nodeid.Address, error) {
	vars := expr.Variables()
	if len(vars) != 1 {
		return nodeid.Address{}, fmt.Errorf("expected a single node.<id>.<port> reference, found %d", len(vars))
	}
	tr := vars[0]
	if tr.RootName() != nodeRoot || len(tr) != 3 {
		return nodeid.Address{}, fmt.Errorf("expected node.<id>.<port>, got %s", traversalString(tr))
	}
	id, ok1 := tr[1].(hcl.TraverseAttr)
	port, ok2 := tr[2].(hcl.TraverseAttr)
	if !ok1 || !ok2 {
		return nodeid.Address{}, fmt.Errorf("expected node.<id>.<port>, got %s", traversalString(tr))
	}
	return nodeid.Parse(id.Name + "." + port.Name)
}

func traversalString(tr hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(tr).Bytes())
}
