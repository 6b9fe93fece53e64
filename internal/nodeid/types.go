// internal/nodeid/types.go
package nodeid

// Address identifies one port of one node.
type Address struct {
	Node string
	Port string
}

// New builds an Address without validating it.
func New(node, port string) Address {
	return Address{Node: node, Port: port}
}
