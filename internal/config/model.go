package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/nodeid"
)

// Model is the unified, format-agnostic representation of a graph document.
type Model struct {
	// Layout is the default layout handed to primitives. A zero layout
	// selects the graph default.
	Layout hmap.Layout
	Nodes  []*Node
}

// Node is the format-agnostic representation of a `node` block.
type Node struct {
	Type string
	ID   string
	// Attributes holds the values to deserialize into the node's bag.
	Attributes attr.Document
	// Inputs maps in-port names to the out-port feeding them.
	Inputs map[string]nodeid.Address
	// Source names the file the node was read from, for error messages.
	Source string
}

// Node returns the node with the given id.
func (m *Model) Node(id string) (*Node, bool) {
	for _, n := range m.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// InputPorts returns the node's linked in-port names, sorted.
func (n *Node) InputPorts() []string {
	ports := make([]string, 0, len(n.Inputs))
	for p := range n.Inputs {
		ports = append(ports, p)
	}
	sort.Strings(ports)
	return ports
}

// Validate checks the structural rules that do not need the node type
// registry: ids are valid and unique and every input names an existing
// node.
func (m *Model) Validate() error {
	var errs []string
	if !m.Layout.IsZero() {
		if err := m.Layout.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("layout: %v", err))
		}
	}

	seen := make(map[string]string, len(m.Nodes))
	for _, n := range m.Nodes {
		if !nodeid.ValidName(n.ID) {
			errs = append(errs, fmt.Sprintf("%s: invalid node id %q", n.Source, n.ID))
			continue
		}
		if prev, dup := seen[n.ID]; dup {
			errs = append(errs, fmt.Sprintf("%s: node %q already defined at %s", n.Source, n.ID, prev))
			continue
		}
		seen[n.ID] = n.Source
	}
	for _, n := range m.Nodes {
		for _, port := range n.InputPorts() {
			from := n.Inputs[port]
			if _, ok := seen[from.Node]; !ok {
				errs = append(errs, fmt.Sprintf("%s: input %q of node %q references unknown node %q", n.Source, port, n.ID, from.Node))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid graph document:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
