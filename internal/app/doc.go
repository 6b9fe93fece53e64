// Package app contains the core application logic. It wires the node type
// registry, the graph document loader and the evaluation loop together,
// decoupled from any specific entrypoint like a CLI or server.
package app
