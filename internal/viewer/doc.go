// Package viewer publishes node updates to an external preview client.
//
// After every evaluation the application sends one Event per recomputed
// output. SocketPublisher delivers them over socket.io as "node_updated"
// events; NopPublisher discards them when no viewer is configured.
package viewer
