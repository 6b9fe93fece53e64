// Package registry provides the central "glue" for the node type system.
//
// The Registry maps the type tags used in graph documents (e.g. "perlin")
// to graph.NodeType values: the ports, default attributes and operator
// factory of each kind of node. Modules register their types at startup,
// and the registry is then validated so that a broken node type is caught
// before any graph is built.
package registry
