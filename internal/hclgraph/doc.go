// Package hclgraph reads and writes graph documents in HCL.
//
// A document declares an optional default layout and any number of nodes:
//
//	layout {
//	  shape   = [256, 256]
//	  tiling  = [4, 4]
//	  overlap = 0.25
//	}
//
//	node "perlin" "noise" {
//	  attributes {
//	    kw   = 4
//	    seed = 7
//	  }
//	}
//
//	node "smooth_cpulse" "smooth" {
//	  attributes {
//	    ir = 8
//	  }
//	  inputs {
//	    input = node.noise.output
//	  }
//	}
//
// Links are discovered from the `node.<id>.<port>` traversals in the inputs
// block. Attribute values are converted to the JSON-shaped documents that
// node attribute bags deserialize.
package hclgraph
