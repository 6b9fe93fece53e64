package graph

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownNode   = errors.New("unknown node")
	ErrUnknownPort   = errors.New("unknown port")
	ErrDuplicateNode = errors.New("duplicate node id")
	ErrDirection     = errors.New("link must join an out-port to an in-port")
	ErrAlreadyLinked = errors.New("in-port is already linked")
	ErrTypeMismatch  = errors.New("port data types differ")
	ErrCycle         = errors.New("link would create a cycle")
	ErrNotLinked     = errors.New("ports are not linked")
	ErrReentrant     = errors.New("node is already computing")
)

// DependencyError reports a node that could not be computed because one of
// its inputs is not available.
type DependencyError struct {
	Node string
	Port string
	// Upstream is the node feeding Port when it exists but is not clean.
	// It is empty when a required port is unlinked.
	Upstream string
}

func (e *DependencyError) Error() string {
	if e.Upstream == "" {
		return fmt.Sprintf("node %q: required input %q is not linked", e.Node, e.Port)
	}
	return fmt.Sprintf("node %q: input %q waits on node %q, which is not up to date", e.Node, e.Port, e.Upstream)
}

// ComputeError wraps an error returned by an operator.
type ComputeError struct {
	Node string
	Type string
	Err  error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("node %q (%s): %v", e.Node, e.Type, e.Err)
}

func (e *ComputeError) Unwrap() error {
	return e.Err
}
