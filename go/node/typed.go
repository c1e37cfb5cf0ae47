package node

import (
	"context"
	"fmt"

	"github.com/arrowmesh/arrowmesh/go/message"
)

// Input is the typed receive half of a pub/sub edge: Recv decodes the
// payload into a T before handing it back.
type Input[T any, PT message.Ptr[T]] struct {
	Raw RawInput
}

// Recv awaits one envelope and decodes its payload into T.
func (i *Input[T, PT]) Recv(ctx context.Context) (message.Header, T, error) {
	var zero T
	env, err := i.Raw.Recv(ctx)
	if err != nil {
		return message.Header{}, zero, err
	}

	var value T
	if err := PT(&value).FromArrow(env.Payload); err != nil {
		return message.Header{}, zero, fmt.Errorf("node: input %q on node %q: decode: %w", i.Raw.id.Label, i.Raw.source.Label, err)
	}
	return env.Header, value, nil
}

// Output is the typed send half of a pub/sub edge: Send encodes value
// before fanning it out.
type Output[T any, PT message.Ptr[T]] struct {
	Raw RawOutput
}

// Send encodes value to Arrow and delivers it to every subscriber.
func (o *Output[T, PT]) Send(ctx context.Context, value T) error {
	arr, err := PT(&value).ToArrow(message.Allocator)
	if err != nil {
		return fmt.Errorf("node: output %q on node %q: encode: %w", o.Raw.id.Label, o.Raw.source.Label, err)
	}
	defer arr.Release()

	return o.Raw.Send(ctx, arr.Data())
}

// Query is the typed client half of a request/reply edge: request type
// Req, reply type Rep.
type Query[Req any, PReq message.Ptr[Req], Rep any, PRep message.Ptr[Rep]] struct {
	Raw RawQuery
}

// Query encodes req, sends it, awaits exactly one reply, and decodes
// it as Rep.
func (q *Query[Req, PReq, Rep, PRep]) Query(ctx context.Context, req Req) (message.Header, Rep, error) {
	var zeroRep Rep

	arr, err := PReq(&req).ToArrow(message.Allocator)
	if err != nil {
		return message.Header{}, zeroRep, fmt.Errorf("node: query %q on node %q: encode request: %w", q.Raw.id.Label, q.Raw.source.Label, err)
	}
	defer arr.Release()

	reply, err := q.Raw.Query(ctx, arr.Data())
	if err != nil {
		return message.Header{}, zeroRep, err
	}

	var rep Rep
	if err := PRep(&rep).FromArrow(reply.Payload); err != nil {
		return message.Header{}, zeroRep, fmt.Errorf("node: query %q on node %q: decode reply: %w", q.Raw.id.Label, q.Raw.source.Label, err)
	}
	return reply.Header, rep, nil
}

// Queryable is the typed server half of a request/reply edge: request
// type Req, reply type Rep.
type Queryable[Req any, PReq message.Ptr[Req], Rep any, PRep message.Ptr[Rep]] struct {
	Raw RawQueryable
}

// OnDemand awaits one request, decodes it as Req, invokes handler, and
// encodes+sends its Rep reply back to the requesting query.
func (q *Queryable[Req, PReq, Rep, PRep]) OnDemand(ctx context.Context, handler func(context.Context, message.Header, Req) (Rep, error)) error {
	return q.Raw.OnDemand(ctx, func(ctx context.Context, env message.Envelope) (message.ArrowPayload, error) {
		var req Req
		if err := PReq(&req).FromArrow(env.Payload); err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}

		rep, err := handler(ctx, env.Header, req)
		if err != nil {
			return nil, err
		}

		arr, err := PRep(&rep).ToArrow(message.Allocator)
		if err != nil {
			return nil, fmt.Errorf("encode reply: %w", err)
		}
		defer arr.Release()

		return arr.Data(), nil
	})
}

// OnDemandUntil loops OnDemand, serving one request per iteration,
// until ctx is cancelled. Exits with nil when ctx's cancellation is the
// cause; any other OnDemand failure is returned directly.
func (q *Queryable[Req, PReq, Rep, PRep]) OnDemandUntil(ctx context.Context, handler func(context.Context, message.Header, Req) (Rep, error)) error {
	for {
		if err := q.OnDemand(ctx, handler); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
