package graph

import (
	"context"
	"fmt"

	"github.com/specialistvlad/terragridgo/internal/attr"
)

// Operator computes the outputs of a node from its inputs and attributes.
type Operator interface {
	Compute(ctx context.Context, io *IO) error
}

// OperatorFunc adapts a function to the Operator interface.
type OperatorFunc func(ctx context.Context, io *IO) error

func (f OperatorFunc) Compute(ctx context.Context, io *IO) error {
	return f(ctx, io)
}

// NodeType describes a kind of node: its ports, default attributes and how
// to create its operator.
type NodeType struct {
	Tag         string
	Category    string
	Description string
	Ports       []PortSpec
	// Attributes returns a fresh bag of default attributes. It may be nil.
	Attributes func() *attr.Bag
	New        func() Operator
}

// Node is one operator instance in a graph.
type Node struct {
	id     string
	typ    *NodeType
	graph  *Graph
	ports  []*Port
	byName map[string]*Port
	attrs  *attr.Bag
	op     Operator
	state  State
	err    error

	presentation any
}

func (n *Node) ID() string          { return n.id }
func (n *Node) Type() string        { return n.typ.Tag }
func (n *Node) Category() string    { return n.typ.Category }
func (n *Node) NodeType() *NodeType { return n.typ }

// Attrs returns the attribute bag. Changing values through the bag does not
// mark the node dirty; use SetAttr for that.
func (n *Node) Attrs() *attr.Bag { return n.attrs }

// Ports returns the ports in declaration order.
func (n *Node) Ports() []*Port {
	return append([]*Port(nil), n.ports...)
}

// Port returns the named port.
func (n *Node) Port(name string) (*Port, bool) {
	p, ok := n.byName[name]
	return p, ok
}

// Inputs returns the in-ports in declaration order.
func (n *Node) Inputs() []*Port { return n.portsIn(In) }

// Outputs returns the out-ports in declaration order.
func (n *Node) Outputs() []*Port { return n.portsIn(Out) }

func (n *Node) portsIn(d Direction) []*Port {
	var out []*Port
	for _, p := range n.ports {
		if p.spec.Direction == d {
			out = append(out, p)
		}
	}
	return out
}

// State returns the evaluation state.
func (n *Node) State() State {
	n.graph.mu.Lock()
	defer n.graph.mu.Unlock()
	return n.state
}

// Err returns the error of the last failed evaluation, or nil.
func (n *Node) Err() error {
	n.graph.mu.Lock()
	defer n.graph.mu.Unlock()
	return n.err
}

// Presentation returns the record attached by a presentation layer.
func (n *Node) Presentation() any { return n.presentation }

// SetPresentation attaches a presentation record to the node.
func (n *Node) SetPresentation(v any) { n.presentation = v }

// SetAttr assigns an attribute. When the stored value changes the node and
// everything downstream of it become dirty.
func (n *Node) SetAttr(name string, v any) (bool, error) {
	n.graph.mu.Lock()
	defer n.graph.mu.Unlock()

	changed, err := n.attrs.Set(name, v)
	if err != nil {
		return false, fmt.Errorf("node %q: %w", n.id, err)
	}
	if changed {
		n.graph.markDirty(n)
	}
	return changed, nil
}

// ForceUpdate marks the node and everything downstream of it dirty.
func (n *Node) ForceUpdate() {
	n.graph.mu.Lock()
	defer n.graph.mu.Unlock()
	n.graph.markDirty(n)
}

// compute runs the operator. The caller holds the graph lock.
func (n *Node) compute(ctx context.Context) error {
	if n.state == Computing {
		return fmt.Errorf("node %q: %w", n.id, ErrReentrant)
	}
	for _, p := range n.ports {
		if p.spec.Direction != In || p.upstream != nil {
			continue
		}
		if !p.spec.Optional {
			n.err = &DependencyError{Node: n.id, Port: p.spec.Name}
			return n.err
		}
	}

	n.state = Computing
	defer func() {
		if n.state == Computing {
			n.state = Dirty
		}
	}()
	err := n.op.Compute(ctx, newIO(ctx, n))
	if err != nil {
		n.state = Dirty
		n.err = &ComputeError{Node: n.id, Type: n.typ.Tag, Err: err}
		return n.err
	}
	n.state = Clean
	n.err = nil
	return nil
}
