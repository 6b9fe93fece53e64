// internal/nodeid/doc.go

/*
Package nodeid provides a structured, type-safe representation for port
addresses within a node graph, based on the canonical format `node.port`.

Node and port names are restricted to letters, digits, `_` and `-`, so the
single dot is always the separator. This package centralizes all formatting
and parsing of addresses.
*/
package nodeid
