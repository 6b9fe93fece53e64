package registry

import "github.com/specialistvlad/terragridgo/internal/graph"

// FilterPorts declares the ports shared by heightmap filters: a required
// input, an optional mask and one output.
func FilterPorts() []graph.PortSpec {
	return []graph.PortSpec{
		graph.Input("input", graph.DataHeightMap),
		graph.OptionalInput("mask", graph.DataHeightMap),
		graph.Output("output", graph.DataHeightMap),
	}
}

// PrimitivePorts declares the ports shared by generators: optional dx and
// dy displacement inputs and one output.
func PrimitivePorts() []graph.PortSpec {
	return []graph.PortSpec{
		graph.OptionalInput("dx", graph.DataHeightMap),
		graph.OptionalInput("dy", graph.DataHeightMap),
		graph.Output("output", graph.DataHeightMap),
	}
}
