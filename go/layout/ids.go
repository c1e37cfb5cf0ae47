// Package layout builds and freezes the graph of nodes, endpoints, and
// connections that the rest of arrowmesh wires into a running dataflow.
package layout

import (
	"github.com/google/uuid"
)

// Kind distinguishes the four disjoint endpoint roles a node may expose.
type Kind int

const (
	Input Kind = iota
	Output
	Query
	Queryable
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case Output:
		return "output"
	case Query:
		return "query"
	case Queryable:
		return "queryable"
	default:
		return "unknown"
	}
}

// NodeID identifies a node in the graph. UUID is a fresh v4 identifier
// minted once per node; Label is display-only and need not be unique.
type NodeID struct {
	Label string
	UUID  uuid.UUID
}

// NewNodeID allocates a NodeID with a fresh random identifier.
func NewNodeID(label string) NodeID {
	return NodeID{Label: label, UUID: uuid.New()}
}

// EndpointID identifies a single endpoint of a node. UUID is a
// deterministic v3 (MD5 namespace) hash of the owning node's UUID and the
// endpoint label, so the same (node, label) pair always produces the same
// ID across runs. Kind is carried alongside rather than encoded into the
// UUID itself, since disjointness between kinds is enforced by keeping
// endpoints of different kinds in different sets, not by the ID's bit
// pattern.
type EndpointID struct {
	Label string
	Kind  Kind
	UUID  uuid.UUID
}

func (n NodeID) endpoint(kind Kind, label string) EndpointID {
	return EndpointID{
		Label: label,
		Kind:  kind,
		UUID:  uuid.NewMD5(n.UUID, []byte(label)),
	}
}

// Input mints the InputID for the given label on this node.
func (n NodeID) Input(label string) EndpointID { return n.endpoint(Input, label) }

// Output mints the OutputID for the given label on this node.
func (n NodeID) Output(label string) EndpointID { return n.endpoint(Output, label) }

// Query mints the QueryID for the given label on this node.
func (n NodeID) Query(label string) EndpointID { return n.endpoint(Query, label) }

// Queryable mints the QueryableID for the given label on this node.
func (n NodeID) Queryable(label string) EndpointID { return n.endpoint(Queryable, label) }
