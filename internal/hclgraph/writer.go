package hclgraph

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/terragridgo/internal/config"
	"github.com/specialistvlad/terragridgo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Writer is the HCL-specific implementation of the config.Writer interface.
type Writer struct{}

// NewWriter creates a new HCL graph writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write renders the model as one HCL document. Nodes keep their model
// order; attributes and inputs are sorted by name.
func (wr *Writer) Write(ctx context.Context, w io.Writer, m *config.Model) error {
	f, err := Encode(m)
	if err != nil {
		return err
	}
	n, err := w.Write(f.Bytes())
	if err != nil {
		return fmt.Errorf("write graph document: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("HCL graph document written.", "nodes", len(m.Nodes), "bytes", n)
	return nil
}

// Encode builds the hclwrite file for a model.
func Encode(m *config.Model) (*hclwrite.File, error) {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	if !m.Layout.IsZero() {
		lb := root.AppendNewBlock("layout", nil).Body()
		lb.SetAttributeValue("shape", cty.TupleVal([]cty.Value{
			cty.NumberIntVal(int64(m.Layout.Shape.X)), cty.NumberIntVal(int64(m.Layout.Shape.Y)),
		}))
		lb.SetAttributeValue("tiling", cty.TupleVal([]cty.Value{
			cty.NumberIntVal(int64(m.Layout.Tiling.X)), cty.NumberIntVal(int64(m.Layout.Tiling.Y)),
		}))
		lb.SetAttributeValue("overlap", cty.NumberFloatVal(m.Layout.Overlap))
	}

	for _, n := range m.Nodes {
		root.AppendNewline()
		nb := root.AppendNewBlock("node", []string{n.Type, n.ID}).Body()

		if len(n.Attributes) > 0 {
			ab := nb.AppendNewBlock("attributes", nil).Body()
			names := make([]string, 0, len(n.Attributes))
			for name := range n.Attributes {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				v, err := nativeToCty(n.Attributes[name])
				if err != nil {
					return nil, fmt.Errorf("node %q attribute %q: %w", n.ID, name, err)
				}
				ab.SetAttributeValue(name, v)
			}
		}

		if len(n.Inputs) > 0 {
			ib := nb.AppendNewBlock("inputs", nil).Body()
			for _, port := range n.InputPorts() {
				from := n.Inputs[port]
				ib.SetAttributeTraversal(port, hcl.Traversal{
					hcl.TraverseRoot{Name: nodeRoot},
					hcl.TraverseAttr{Name: from.Node},
					hcl.TraverseAttr{Name: from.Port},
				})
			}
		}
	}
	return f, nil
}
