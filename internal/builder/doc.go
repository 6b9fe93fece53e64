/*
Package builder is responsible for the construction of a node graph from a
graph document. It acts as the bridge between the static document model
(defined in the 'config' package) and the evaluation engine (the 'graph'
package).

The graph construction is a multi-phase process:

 1. Node Creation: The builder iterates through the document's nodes and
    creates a graph node of the registered type for each one. An unknown type
    is fatal.

 2. Attribute Decoding: Each node's attribute document is deserialized into
    the node's attribute bag. A field that fails to decode is not fatal: the
    attribute keeps its default, its siblings and the other nodes still load,
    and the failure is reported back to the caller.

 3. Linking: Every input reference becomes a graph link. The graph itself
    rejects unknown ports, type mismatches, double links and cycles; all such
    errors are collected and returned together.

FromGraph performs the reverse operation so that an edited graph can be
saved.
*/
package builder
