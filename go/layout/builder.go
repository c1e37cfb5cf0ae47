package layout

import (
	"fmt"

	"github.com/google/uuid"
)

// Builder is handed to the closure passed to Layout.Node; it accumulates
// one node's endpoints until that closure returns.
type Builder struct {
	node NodeID

	inputs     map[uuid.UUID]struct{}
	outputs    map[uuid.UUID]struct{}
	queries    map[uuid.UUID]struct{}
	queryables map[uuid.UUID]struct{}
	labels     map[uuid.UUID]string

	seen map[string]struct{}
	errs []error
}

func newBuilder(node NodeID) *Builder {
	return &Builder{
		node:       node,
		inputs:     make(map[uuid.UUID]struct{}),
		outputs:    make(map[uuid.UUID]struct{}),
		queries:    make(map[uuid.UUID]struct{}),
		queryables: make(map[uuid.UUID]struct{}),
		labels:     make(map[uuid.UUID]string),
		seen:       make(map[string]struct{}),
	}
}

func (b *Builder) add(kind Kind, label string) EndpointID {
	if _, dup := b.seen[label]; dup {
		b.errs = append(b.errs, fmt.Errorf("%w: node %q, label %q", ErrDuplicateLabel, b.node.Label, label))
		return EndpointID{}
	}
	b.seen[label] = struct{}{}

	id := b.node.endpoint(kind, label)

	switch kind {
	case Input:
		b.inputs[id.UUID] = struct{}{}
	case Output:
		b.outputs[id.UUID] = struct{}{}
	case Query:
		b.queries[id.UUID] = struct{}{}
	case Queryable:
		b.queryables[id.UUID] = struct{}{}
	}
	b.labels[id.UUID] = label

	return id
}

// Input declares an input endpoint on the node under construction.
func (b *Builder) Input(label string) EndpointID { return b.add(Input, label) }

// Output declares an output endpoint on the node under construction.
func (b *Builder) Output(label string) EndpointID { return b.add(Output, label) }

// Query declares a query endpoint on the node under construction.
func (b *Builder) Query(label string) EndpointID { return b.add(Query, label) }

// Queryable declares a queryable endpoint on the node under construction.
func (b *Builder) Queryable(label string) EndpointID { return b.add(Queryable, label) }

// NodeID returns the identifier of the node being built, useful when a
// build closure wants to derive further endpoint IDs manually.
func (b *Builder) NodeID() NodeID { return b.node }
