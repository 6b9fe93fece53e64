package blend

import (
	"context"
	"fmt"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/registry"
	"github.com/specialistvlad/terragridgo/modules/internal/kernel"
)

// Blend methods.
const (
	MethodAdd = iota
	MethodMax
	MethodMin
	MethodMultiply
	MethodLerp
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the "blend" node type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(&graph.NodeType{
		Tag:         "blend",
		Category:    "Operator/Blend",
		Description: "Combines two fields, weighted by the mask when linked. lerp falls back to k without a mask.",
		Ports: []graph.PortSpec{
			graph.Input("input_1", graph.DataHeightMap),
			graph.Input("input_2", graph.DataHeightMap),
			graph.OptionalInput("mask", graph.DataHeightMap),
			graph.Output("output", graph.DataHeightMap),
		},
		Attributes: func() *attr.Bag {
			return attr.NewBag().
				Add("method", attr.NewMapEnum(map[string]int{
					"add":      MethodAdd,
					"max":      MethodMax,
					"min":      MethodMin,
					"multiply": MethodMultiply,
					"lerp":     MethodLerp,
				}, "max")).
				Add("k", attr.NewFloat(0.5, 0, 1))
		},
		New: func() graph.Operator { return graph.OperatorFunc(compute) },
	})
}

func compute(_ context.Context, io *graph.IO) error {
	method := io.Attrs().Enum("method")
	k := float32(io.Attrs().Float("k"))

	out := io.OutHeightMap("output")
	if err := out.CopyFrom(io.HeightMap("input_1")); err != nil {
		return err
	}
	aux := []*hmap.HeightMap{io.HeightMap("input_2"), io.HeightMap("mask")}

	return hmap.Transform(out, aux, nil, func(x *hmap.Array, aux, _ []*hmap.Array) error {
		a := x.Clone()
		b, mask := aux[0], aux[1]
		switch method {
		case MethodAdd:
			for i := range x.Data {
				x.Data[i] += b.Data[i]
			}
		case MethodMax:
			for i := range x.Data {
				x.Data[i] = max(x.Data[i], b.Data[i])
			}
		case MethodMin:
			for i := range x.Data {
				x.Data[i] = min(x.Data[i], b.Data[i])
			}
		case MethodMultiply:
			for i := range x.Data {
				x.Data[i] *= b.Data[i]
			}
		case MethodLerp:
			copy(x.Data, b.Data)
			if mask == nil {
				mask = hmap.Constant(x.Shape, k)
			}
		default:
			return fmt.Errorf("unknown blend method %d", method)
		}
		if mask != nil {
			kernel.Blend(x, a, mask)
		}
		return nil
	})
}
