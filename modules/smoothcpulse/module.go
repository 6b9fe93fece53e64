package smoothcpulse

import (
	"context"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/registry"
	"github.com/specialistvlad/terragridgo/modules/internal/kernel"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the "smooth_cpulse" node type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(&graph.NodeType{
		Tag:         "smooth_cpulse",
		Category:    "Filter/Smoothing",
		Description: "Smoothing with a cubic pulse kernel of radius ir.",
		Ports:       registry.FilterPorts(),
		Attributes: func() *attr.Bag {
			return attr.NewBag().Add("ir", attr.NewInt(8, 1, 256))
		},
		New: func() graph.Operator { return graph.OperatorFunc(compute) },
	})
}

func compute(_ context.Context, io *graph.IO) error {
	k := kernel.CubicPulse(io.Attrs().Int("ir"))
	return kernel.Filter(io, func(x *hmap.Array) error {
		kernel.ConvolveSeparable(x, k)
		return nil
	})
}
