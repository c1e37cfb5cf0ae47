package message

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"

	"github.com/arrowmesh/arrowmesh/go/clock"
)

// Source identifies the endpoint a message was sent from: the owning
// node's UUID and the specific output, query, or queryable endpoint's
// UUID. Queryable replies and query requests both use Source to route:
// a reply travels back to whichever query endpoint issued the request.
type Source struct {
	NodeID     uuid.UUID
	EndpointID uuid.UUID
}

// Header carries everything about a message besides its payload: the
// hybrid-logical-clock timestamp assigned at send time, and the
// endpoint it came from.
type Header struct {
	Timestamp clock.Timestamp
	Source    Source
}

// ArrowPayload is the wire representation carried by every envelope.
type ArrowPayload = arrow.ArrayData

// Envelope is a header paired with its Arrow-encoded payload. It is
// cheap to pass by value: the payload is an arrow.ArrayData, which is
// reference-counted and shares its underlying buffers rather than
// copying them.
type Envelope struct {
	Header  Header
	Payload arrow.ArrayData
}
