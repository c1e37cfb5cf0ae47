package layout

import (
	"fmt"

	"github.com/google/uuid"
)

// pair is a directed (sender, receiver) connection.
type pair [2]uuid.UUID

// FlowBuilder is handed to the closure passed to Layout.Finish; it
// accumulates the graph's connections. Connect normalizes both legal
// orientations (Output,Input)/(Input,Output) and (Query,Queryable)/
// (Queryable,Query) to a canonical stored representation.
type FlowBuilder struct {
	connections map[pair]struct{}

	connectedInputs map[uuid.UUID]struct{}
	connectedQuery  map[uuid.UUID]struct{}
}

func newFlowBuilder() *FlowBuilder {
	return &FlowBuilder{
		connections:     make(map[pair]struct{}),
		connectedInputs: make(map[uuid.UUID]struct{}),
		connectedQuery:  make(map[uuid.UUID]struct{}),
	}
}

// Connect wires two endpoints together. Accepted combinations are
// (Output, Input) in either argument order, and (Query, Queryable) in
// either argument order. For the request/reply case both directions are
// recorded: the fabric needs to see a forward request path
// (query -> queryable) and a reply path (queryable -> query).
func (f *FlowBuilder) Connect(a, b EndpointID) error {
	switch {
	case a.Kind == Output && b.Kind == Input:
		return f.connectOutputInput(a, b)
	case a.Kind == Input && b.Kind == Output:
		return f.connectOutputInput(b, a)
	case a.Kind == Query && b.Kind == Queryable:
		return f.connectQueryableQuery(b, a)
	case a.Kind == Queryable && b.Kind == Query:
		return f.connectQueryableQuery(a, b)
	default:
		return fmt.Errorf("%w: between %s endpoint %q and %s endpoint %q",
			ErrIllegalConnection, a.Kind, a.Label, b.Kind, b.Label)
	}
}

func (f *FlowBuilder) connectOutputInput(output, input EndpointID) error {
	if _, exists := f.connectedInputs[input.UUID]; exists {
		return fmt.Errorf("%w: input %q", ErrInputFanIn, input.Label)
	}
	f.connectedInputs[input.UUID] = struct{}{}
	f.connections[pair{output.UUID, input.UUID}] = struct{}{}
	return nil
}

func (f *FlowBuilder) connectQueryableQuery(queryable, query EndpointID) error {
	if _, exists := f.connectedQuery[query.UUID]; exists {
		return fmt.Errorf("%w: query %q", ErrQueryFanOut, query.Label)
	}
	f.connectedQuery[query.UUID] = struct{}{}
	f.connections[pair{queryable.UUID, query.UUID}] = struct{}{}
	f.connections[pair{query.UUID, queryable.UUID}] = struct{}{}
	return nil
}
