// Package graph implements the node graph that evaluates terrain operators
// into raster buffers.
//
// # Model
//
// A Graph owns Nodes. Each Node is an instance of a NodeType and carries
// ordered, typed Ports, an attribute bag and an Operator. An in-port accepts
// at most one Link from an out-port of the same DataType; an out-port may
// feed any number of in-ports. Link state is only ever changed by the Graph,
// so both ends of a link always agree.
//
// # Data
//
// Output buffers live in an arena owned by the graph and keyed by
// (node id, port name). An in-port has no storage of its own: during
// Compute it resolves through its link to the upstream slot, or to nil when
// it is optional and unlinked.
//
// # Evaluation
//
// Nodes move through Clean, Dirty and Computing. Editing an attribute,
// linking or unlinking marks the edited node and everything downstream of
// it dirty; nothing is computed until Update or UpdateNode is called.
//
//	g.MustNode("noise").SetAttr("kw", 4.0) // noise and its consumers are dirty
//	err := g.Update(ctx)                  // recompute them, once each, upstream first
//
// A node whose compute fails stays dirty and keeps its error; its
// downstream nodes are skipped and stay dirty too. A later Update retries
// them.
//
// # Concurrency
//
// All exported Graph methods serialize on one mutex. Operators must not call
// back into the Graph from Compute.
package graph
