package print

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out receives the printed summaries. Nil means standard output.
	Out io.Writer
}

// Register registers the "print" node type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(&graph.NodeType{
		Tag:         "print",
		Category:    "IO/Debug",
		Description: "Prints the range and checksum of its input and passes it through.",
		Ports: []graph.PortSpec{
			graph.Input("input", graph.DataHeightMap),
			graph.Output("output", graph.DataHeightMap),
		},
		Attributes: func() *attr.Bag {
			return attr.NewBag()
		},
		New: func() graph.Operator { return graph.OperatorFunc(m.compute) },
	})
}

func (m *Module) compute(_ context.Context, io *graph.IO) error {
	in := io.HeightMap("input")
	if err := io.OutHeightMap("output").CopyFrom(in); err != nil {
		return err
	}

	label := io.NodeID()
	lo, hi := in.MinMax()
	sum := in.Checksum()
	io.Logger().Info("Printing input", "label", label, "min", lo, "max", hi, "checksum", sum)

	w := m.Out
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "      %s: %s min=%g max=%g checksum=%016x\n", label, in.Layout, lo, hi, sum)
	return nil
}
