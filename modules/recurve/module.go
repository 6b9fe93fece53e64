package recurve

import (
	"context"
	"sort"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/registry"
	"github.com/specialistvlad/terragridgo/modules/internal/kernel"
	"github.com/tanema/gween/ease"
)

// Curves lists the easing curves by name.
var Curves = map[string]ease.TweenFunc{
	"linear":         ease.Linear,
	"in_quad":        ease.InQuad,
	"out_quad":       ease.OutQuad,
	"in_out_quad":    ease.InOutQuad,
	"in_cubic":       ease.InCubic,
	"out_cubic":      ease.OutCubic,
	"in_out_cubic":   ease.InOutCubic,
	"in_sine":        ease.InSine,
	"out_sine":       ease.OutSine,
	"in_out_sine":    ease.InOutSine,
	"in_expo":        ease.InExpo,
	"out_expo":       ease.OutExpo,
	"in_circ":        ease.InCirc,
	"out_circ":       ease.OutCirc,
	"out_bounce":     ease.OutBounce,
	"in_out_elastic": ease.InOutElastic,
}

// curveNames is Curves' keys in a stable order, indexed by enum value.
var curveNames = func() []string {
	names := make([]string, 0, len(Curves))
	for n := range Curves {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}()

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the "recurve" node type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(&graph.NodeType{
		Tag:         "recurve",
		Category:    "Filter/Recurve",
		Description: "Reshapes the value distribution with an easing curve.",
		Ports:       registry.FilterPorts(),
		Attributes: func() *attr.Bag {
			choices := make(map[string]int, len(curveNames))
			for k, n := range curveNames {
				choices[n] = k
			}
			return attr.NewBag().Add("curve", attr.NewMapEnum(choices, "in_out_cubic"))
		},
		New: func() graph.Operator { return graph.OperatorFunc(compute) },
	})
}

func compute(_ context.Context, io *graph.IO) error {
	curve, ok := Curves[io.Attrs().Choice("curve")]
	if !ok {
		curve = ease.Linear
	}
	lo, hi := io.HeightMap("input").MinMax()
	span := hi - lo

	return kernel.Filter(io, func(x *hmap.Array) error {
		if span == 0 {
			return nil
		}
		for k, v := range x.Data {
			t := min(max((v-lo)/span, 0), 1)
			x.Data[k] = lo + span*curve(t, 0, 1, 1)
		}
		return nil
	})
}
