// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// nameRegex matches a single node or port name.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidName reports whether s may be used as a node id or port name.
func ValidName(s string) bool {
	if s == "-" {
		return false
	}
	return nameRegex.MatchString(s)
}

// Parse creates an Address by parsing its canonical `node.port` form.
func Parse(raw string) (Address, error) {
	if raw == "" {
		return Address{}, fmt.Errorf("address cannot be empty")
	}

	node, port, ok := strings.Cut(raw, ".")
	if !ok {
		return Address{}, fmt.Errorf("address %q must have the form node.port", raw)
	}
	for _, name := range []string{node, port} {
		if name == "" {
			return Address{}, fmt.Errorf("address %q contains an empty segment", raw)
		}
		if !ValidName(name) {
			return Address{}, fmt.Errorf("invalid name %q in address %q", name, raw)
		}
	}
	return Address{Node: node, Port: port}, nil
}
