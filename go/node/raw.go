package node

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/arrowmesh/arrowmesh/go/clock"
	"github.com/arrowmesh/arrowmesh/go/layout"
	"github.com/arrowmesh/arrowmesh/go/message"
)

// RawInput is the untyped receive half of a pub/sub edge: recv hands
// back the Arrow payload exactly as it arrived, leaving decoding to the
// caller.
type RawInput struct {
	rx     <-chan message.Envelope
	source layout.NodeID
	id     layout.EndpointID
}

func newRawInput(rx <-chan message.Envelope, source layout.NodeID, id layout.EndpointID) RawInput {
	return RawInput{rx: rx, source: source, id: id}
}

// Recv awaits exactly one envelope, or returns an error if the context
// is cancelled first or the channel has been closed. The fabric never
// closes its channels, not even when the producing nodes have returned,
// so the closed case arises only if some other code closes the channel.
func (r *RawInput) Recv(ctx context.Context) (message.Envelope, error) {
	select {
	case env, ok := <-r.rx:
		if !ok {
			return message.Envelope{}, fmt.Errorf("node: input %q on node %q: channel closed", r.id.Label, r.source.Label)
		}
		return env, nil
	case <-ctx.Done():
		return message.Envelope{}, ctx.Err()
	}
}

// RawOutput is the untyped send half of a pub/sub edge: send fans the
// already Arrow-encoded payload out to every connected input
// concurrently, stamping a fresh header for each envelope.
type RawOutput struct {
	tx      []chan<- message.Envelope
	clock   *clock.Clock
	source  layout.NodeID
	id      layout.EndpointID
	metrics MetricsRecorder
}

func newRawOutput(tx []chan<- message.Envelope, c *clock.Clock, source layout.NodeID, id layout.EndpointID, metrics MetricsRecorder) RawOutput {
	return RawOutput{tx: tx, clock: c, source: source, id: id, metrics: metrics}
}

// Send stamps a header and delivers the payload to every subscriber
// concurrently, awaiting backpressure on each independently. If one or
// more sends fail, Send returns a single error enumerating every
// failed subscriber; sends that succeeded before the failure stay
// delivered (subscribers are independent channels, so a partial
// failure cannot roll back the successful ones).
func (r *RawOutput) Send(ctx context.Context, payload message.ArrowPayload) error {
	header := message.Header{
		Timestamp: r.clock.Now(),
		Source:    message.Source{NodeID: r.source.UUID, EndpointID: r.id.UUID},
	}
	env := message.Envelope{Header: header, Payload: payload}

	if len(r.tx) == 0 {
		return nil
	}

	type result struct {
		idx int
		err error
	}
	results := make(chan result, len(r.tx))

	for i, ch := range r.tx {
		go func(i int, ch chan<- message.Envelope) {
			select {
			case ch <- env:
				results <- result{idx: i}
			case <-ctx.Done():
				results <- result{idx: i, err: ctx.Err()}
			}
		}(i, ch)
	}

	var errs []error
	for range r.tx {
		res := <-results
		if res.err != nil {
			errs = append(errs, fmt.Errorf("subscriber %d: %w", res.idx, res.err))
		}
	}

	if r.metrics != nil {
		r.metrics.RecordSend(len(errs) == 0)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("node: output %q on node %q: %d of %d subscribers failed: %w",
		r.id.Label, r.source.Label, len(errs), len(r.tx), errors.Join(errs...))
}

// RawQuery is the untyped client half of a request/reply edge.
type RawQuery struct {
	tx     chan<- message.Envelope
	rx     <-chan message.Envelope
	clock  *clock.Clock
	source layout.NodeID
	id     layout.EndpointID
}

func newRawQuery(tx chan<- message.Envelope, rx <-chan message.Envelope, c *clock.Clock, source layout.NodeID, id layout.EndpointID) RawQuery {
	return RawQuery{tx: tx, rx: rx, clock: c, source: source, id: id}
}

// Query sends an encoded request, stamped with this query endpoint's
// ID as the source (so the queryable routes the reply back here), and
// awaits exactly one reply. There is no implicit timeout; pass a
// context with a deadline to impose one.
func (r *RawQuery) Query(ctx context.Context, payload message.ArrowPayload) (message.Envelope, error) {
	req := message.Envelope{
		Header: message.Header{
			Timestamp: r.clock.Now(),
			Source:    message.Source{NodeID: r.source.UUID, EndpointID: r.id.UUID},
		},
		Payload: payload,
	}

	select {
	case r.tx <- req:
	case <-ctx.Done():
		return message.Envelope{}, fmt.Errorf("node: query %q on node %q: send: %w", r.id.Label, r.source.Label, ctx.Err())
	}

	select {
	case reply, ok := <-r.rx:
		if !ok {
			return message.Envelope{}, fmt.Errorf("node: query %q on node %q: reply channel closed", r.id.Label, r.source.Label)
		}
		return reply, nil
	case <-ctx.Done():
		return message.Envelope{}, fmt.Errorf("node: query %q on node %q: recv: %w", r.id.Label, r.source.Label, ctx.Err())
	}
}

// RawQueryable is the untyped server half of a request/reply edge.
type RawQueryable struct {
	tx      map[uuid.UUID]chan<- message.Envelope
	rx      <-chan message.Envelope
	clock   *clock.Clock
	source  layout.NodeID
	id      layout.EndpointID
	metrics MetricsRecorder
}

func newRawQueryable(tx map[uuid.UUID]chan<- message.Envelope, rx <-chan message.Envelope, c *clock.Clock, source layout.NodeID, id layout.EndpointID, metrics MetricsRecorder) RawQueryable {
	return RawQueryable{tx: tx, rx: rx, clock: c, source: source, id: id, metrics: metrics}
}

// OnDemand awaits exactly one request, routes it through handler, and
// sends the encoded reply back to the one query that sent it. It
// processes exactly one request per call; a node that wants to serve
// indefinitely loops, calling OnDemand again after each reply.
func (r *RawQueryable) OnDemand(ctx context.Context, handler func(context.Context, message.Envelope) (message.ArrowPayload, error)) error {
	var req message.Envelope
	select {
	case env, ok := <-r.rx:
		if !ok {
			return fmt.Errorf("node: queryable %q on node %q: channel closed", r.id.Label, r.source.Label)
		}
		req = env
	case <-ctx.Done():
		return ctx.Err()
	}

	replyTx, ok := r.tx[req.Header.Source.EndpointID]
	if !ok {
		return fmt.Errorf("node: queryable %q on node %q: no reply route for source query %s (routing violation)",
			r.id.Label, r.source.Label, req.Header.Source.EndpointID)
	}

	payload, err := handler(ctx, req)
	if err != nil {
		return fmt.Errorf("node: queryable %q on node %q: handler: %w", r.id.Label, r.source.Label, err)
	}

	reply := message.Envelope{
		Header: message.Header{
			Timestamp: r.clock.Now(),
			Source:    message.Source{NodeID: r.source.UUID, EndpointID: r.id.UUID},
		},
		Payload: payload,
	}

	select {
	case replyTx <- reply:
		if r.metrics != nil {
			r.metrics.RecordSend(true)
		}
		return nil
	case <-ctx.Done():
		if r.metrics != nil {
			r.metrics.RecordSend(false)
		}
		return fmt.Errorf("node: queryable %q on node %q: reply send: %w", r.id.Label, r.source.Label, ctx.Err())
	}
}
