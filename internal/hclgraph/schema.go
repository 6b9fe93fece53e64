package hclgraph

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Layout *layoutBlock `hcl:"layout,block"`
	Nodes  []*nodeBlock `hcl:"node,block"`
	Remain hcl.Body     `hcl:",remain"`
}

// layoutBlock is the HCL schema for the `layout` block.
type layoutBlock struct {
	Shape   hcl.Expression `hcl:"shape,optional"`
	Tiling  hcl.Expression `hcl:"tiling,optional"`
	Overlap hcl.Expression `hcl:"overlap,optional"`
}

// nodeBlock is the HCL schema for a `node "<type>" "<id>"` block.
type nodeBlock struct {
	Type       string     `hcl:"type,label"`
	ID         string     `hcl:"id,label"`
	Attributes *bodyBlock `hcl:"attributes,block"`
	Inputs     *bodyBlock `hcl:"inputs,block"`
}

// bodyBlock captures a free-form block of attributes.
type bodyBlock struct {
	Body hcl.Body `hcl:",remain"`
}
