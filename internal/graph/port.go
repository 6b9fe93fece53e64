package graph

import (
	"fmt"
	"slices"
)

// PortSpec declares a port of a node type.
type PortSpec struct {
	Name      string
	Direction Direction
	Type      DataType
	// Optional marks in-ports that may stay unlinked.
	Optional bool
}

// Input declares a required in-port.
func Input(name string, t DataType) PortSpec {
	return PortSpec{Name: name, Direction: In, Type: t}
}

// OptionalInput declares an in-port that may stay unlinked.
func OptionalInput(name string, t DataType) PortSpec {
	return PortSpec{Name: name, Direction: In, Type: t, Optional: true}
}

// Output declares an out-port.
func Output(name string, t DataType) PortSpec {
	return PortSpec{Name: name, Direction: Out, Type: t}
}

// Port is one typed connection point of a node.
type Port struct {
	node     *Node
	spec     PortSpec
	hashID   uint64
	upstream *Port   // in-ports only
	consumer []*Port // out-ports only
}

func (p *Port) Name() string        { return p.spec.Name }
func (p *Port) Direction() Direction { return p.spec.Direction }
func (p *Port) DataType() DataType   { return p.spec.Type }
func (p *Port) Optional() bool       { return p.spec.Optional }

// HashID is the graph-wide numeric id of the port.
func (p *Port) HashID() uint64 { return p.hashID }

// Node returns the owning node.
func (p *Port) Node() *Node { return p.node }

// Upstream returns the out-port feeding an in-port, or nil.
func (p *Port) Upstream() *Port { return p.upstream }

// Consumers returns the in-ports fed by an out-port.
func (p *Port) Consumers() []*Port { return slices.Clone(p.consumer) }

// IsConnected reports whether an in-port has a link or an out-port has at
// least one consumer.
func (p *Port) IsConnected() bool {
	if p.spec.Direction == In {
		return p.upstream != nil
	}
	return len(p.consumer) > 0
}

func (p *Port) String() string {
	return fmt.Sprintf("%s.%s", p.node.id, p.spec.Name)
}

// connect links out to in. State is unchanged on error.
func connect(out, in *Port) error {
	if out.spec.Direction != Out || in.spec.Direction != In {
		return fmt.Errorf("%w: %s (%s) -> %s (%s)", ErrDirection, out, out.spec.Direction, in, in.spec.Direction)
	}
	if in.upstream != nil {
		return fmt.Errorf("%w: %s is fed by %s", ErrAlreadyLinked, in, in.upstream)
	}
	if out.spec.Type != in.spec.Type {
		return fmt.Errorf("%w: %s is %s, %s is %s", ErrTypeMismatch, out, out.spec.Type, in, in.spec.Type)
	}
	in.upstream = out
	out.consumer = append(out.consumer, in)
	return nil
}

// disconnect clears the link of an in-port on both sides.
func disconnect(in *Port) {
	out := in.upstream
	if out == nil {
		return
	}
	out.consumer = slices.DeleteFunc(out.consumer, func(p *Port) bool { return p == in })
	in.upstream = nil
}
