// Package node defines the two-phase node contract and the endpoint
// handles (Inputs, Outputs, Queries, Queryables) a node implementation
// uses to acquire its typed or raw communication primitives from the
// fabric.
package node

import (
	"context"

	"gopkg.in/yaml.v3"
)

// Node is implemented by every dataflow component. A Constructor builds
// a running instance from its acquired endpoints and configuration;
// Start drives that instance until it returns (on input EOF, on error,
// or once its work is done). The two phases run in separate
// supervised stages: every node in a dataflow is constructed
// concurrently before any node is started, so constructors may safely
// assume no sibling node's Start has begun.
type Node interface {
	Start(ctx context.Context) error
}

// Constructor builds a Node from its acquired endpoint handles and a
// parsed configuration document. It is the Go analogue of the
// dynamically-linked node symbol's function pointer: both statically
// linked (in-process) and dynamically linked (shared-library) nodes are
// ultimately just a value of this function type.
type Constructor func(ctx context.Context, in *Inputs, out *Outputs, q *Queries, qable *Queryables, config yaml.Node) (Node, error)
