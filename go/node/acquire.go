package node

import (
	"fmt"

	"github.com/arrowmesh/arrowmesh/go/clock"
	"github.com/arrowmesh/arrowmesh/go/fabric"
	"github.com/arrowmesh/arrowmesh/go/layout"
	"github.com/arrowmesh/arrowmesh/go/message"
)

// Inputs is the surface a node's constructor uses to acquire its input
// endpoints by label. Each endpoint can be acquired exactly once; the
// underlying move is enforced by the fabric itself.
type Inputs struct {
	fabric *fabric.Fabric
	source layout.NodeID
}

// NewInputs binds an acquisition surface to one node's inputs.
func NewInputs(f *fabric.Fabric, source layout.NodeID) *Inputs {
	return &Inputs{fabric: f, source: source}
}

// Raw acquires the untyped input handle for label.
func (in *Inputs) Raw(label string) (RawInput, error) {
	id := in.source.Input(label)
	rx, err := in.fabric.TakeInputReceiver(id.UUID)
	if err != nil {
		return RawInput{}, fmt.Errorf("node %q: %w", in.source.Label, err)
	}
	return newRawInput(rx, in.source, id), nil
}

// WithInput acquires the input handle for label and wraps it with
// typed decoding. Go does not allow methods to introduce their own
// type parameters, so this is a free function over *Inputs rather than
// a generic method.
func WithInput[T any, PT message.Ptr[T]](in *Inputs, label string) (Input[T, PT], error) {
	raw, err := in.Raw(label)
	if err != nil {
		return Input[T, PT]{}, err
	}
	return Input[T, PT]{Raw: raw}, nil
}

// Outputs is the surface a node's constructor uses to acquire its
// output endpoints by label.
type Outputs struct {
	fabric  *fabric.Fabric
	clock   *clock.Clock
	source  layout.NodeID
	metrics MetricsRecorder
}

// NewOutputs binds an acquisition surface to one node's outputs.
func NewOutputs(f *fabric.Fabric, c *clock.Clock, source layout.NodeID) *Outputs {
	return &Outputs{fabric: f, clock: c, source: source}
}

// WithMetrics attaches a recorder that every output handle subsequently
// acquired through this surface reports its sends to. It returns the
// same *Outputs so it can be chained onto NewOutputs.
func (out *Outputs) WithMetrics(m MetricsRecorder) *Outputs {
	out.metrics = m
	return out
}

// Raw acquires the untyped output handle for label.
func (out *Outputs) Raw(label string) (RawOutput, error) {
	id := out.source.Output(label)
	tx, err := out.fabric.TakeOutputSenders(id.UUID)
	if err != nil {
		return RawOutput{}, fmt.Errorf("node %q: %w", out.source.Label, err)
	}
	return newRawOutput(tx, out.clock, out.source, id, out.metrics), nil
}

// WithOutput acquires the output handle for label and wraps it with
// typed encoding.
func WithOutput[T any, PT message.Ptr[T]](out *Outputs, label string) (Output[T, PT], error) {
	raw, err := out.Raw(label)
	if err != nil {
		return Output[T, PT]{}, err
	}
	return Output[T, PT]{Raw: raw}, nil
}

// Queries is the surface a node's constructor uses to acquire its
// query endpoints by label.
type Queries struct {
	fabric *fabric.Fabric
	clock  *clock.Clock
	source layout.NodeID
}

// NewQueries binds an acquisition surface to one node's queries.
func NewQueries(f *fabric.Fabric, c *clock.Clock, source layout.NodeID) *Queries {
	return &Queries{fabric: f, clock: c, source: source}
}

// Raw acquires the untyped query handle for label.
func (q *Queries) Raw(label string) (RawQuery, error) {
	id := q.source.Query(label)
	tx, err := q.fabric.TakeQuerySender(id.UUID)
	if err != nil {
		return RawQuery{}, fmt.Errorf("node %q: %w", q.source.Label, err)
	}
	rx, err := q.fabric.TakeQueryReceiver(id.UUID)
	if err != nil {
		return RawQuery{}, fmt.Errorf("node %q: %w", q.source.Label, err)
	}
	return newRawQuery(tx, rx, q.clock, q.source, id), nil
}

// WithQuery acquires the query handle for label and wraps it with
// typed request/reply encoding.
func WithQuery[Req any, PReq message.Ptr[Req], Rep any, PRep message.Ptr[Rep]](q *Queries, label string) (Query[Req, PReq, Rep, PRep], error) {
	raw, err := q.Raw(label)
	if err != nil {
		return Query[Req, PReq, Rep, PRep]{}, err
	}
	return Query[Req, PReq, Rep, PRep]{Raw: raw}, nil
}

// Queryables is the surface a node's constructor uses to acquire its
// queryable endpoints by label.
type Queryables struct {
	fabric  *fabric.Fabric
	clock   *clock.Clock
	source  layout.NodeID
	metrics MetricsRecorder
}

// NewQueryables binds an acquisition surface to one node's queryables.
func NewQueryables(f *fabric.Fabric, c *clock.Clock, source layout.NodeID) *Queryables {
	return &Queryables{fabric: f, clock: c, source: source}
}

// WithMetrics attaches a recorder that every queryable handle
// subsequently acquired through this surface reports its replies to.
func (q *Queryables) WithMetrics(m MetricsRecorder) *Queryables {
	q.metrics = m
	return q
}

// Raw acquires the untyped queryable handle for label.
func (q *Queryables) Raw(label string) (RawQueryable, error) {
	id := q.source.Queryable(label)
	tx, err := q.fabric.TakeQueryableSenders(id.UUID)
	if err != nil {
		return RawQueryable{}, fmt.Errorf("node %q: %w", q.source.Label, err)
	}
	rx, err := q.fabric.TakeQueryableReceiver(id.UUID)
	if err != nil {
		return RawQueryable{}, fmt.Errorf("node %q: %w", q.source.Label, err)
	}
	return newRawQueryable(tx, rx, q.clock, q.source, id, q.metrics), nil
}

// WithQueryable acquires the queryable handle for label and wraps it
// with typed request/reply encoding.
func WithQueryable[Req any, PReq message.Ptr[Req], Rep any, PRep message.Ptr[Rep]](q *Queryables, label string) (Queryable[Req, PReq, Rep, PRep], error) {
	raw, err := q.Raw(label)
	if err != nil {
		return Queryable[Req, PReq, Rep, PRep]{}, err
	}
	return Queryable[Req, PReq, Rep, PRep]{Raw: raw}, nil
}
