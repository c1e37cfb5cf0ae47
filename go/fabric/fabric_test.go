package fabric_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrowmesh/arrowmesh/go/clock"
	"github.com/arrowmesh/arrowmesh/go/fabric"
	"github.com/arrowmesh/arrowmesh/go/layout"
	"github.com/arrowmesh/arrowmesh/go/message"
)

func TestBuildWiresOutputToInput(t *testing.T) {
	l := layout.New()

	var out, in layout.EndpointID
	l.Node("source", func(b *layout.Builder) { out = b.Output("tick") })
	l.Node("sink", func(b *layout.Builder) { in = b.Input("tick") })

	dl, err := l.Finish(func(f *layout.FlowBuilder) error { return f.Connect(out, in) })
	require.NoError(t, err)

	f, err := fabric.Build(dl)
	require.NoError(t, err)

	senders, err := f.TakeOutputSenders(out.UUID)
	require.NoError(t, err)
	require.Len(t, senders, 1)

	receiver, err := f.TakeInputReceiver(in.UUID)
	require.NoError(t, err)

	senders[0] <- testEnvelope()
	got := <-receiver
	assert.Equal(t, testEnvelope().Header.Source, got.Header.Source)
}

func TestBuildFansOutOneOutputToManyInputs(t *testing.T) {
	l := layout.New()

	var out, inA, inB layout.EndpointID
	l.Node("source", func(b *layout.Builder) { out = b.Output("tick") })
	l.Node("a", func(b *layout.Builder) { inA = b.Input("tick") })
	l.Node("b", func(b *layout.Builder) { inB = b.Input("tick") })

	dl, err := l.Finish(func(fl *layout.FlowBuilder) error {
		if err := fl.Connect(out, inA); err != nil {
			return err
		}
		return fl.Connect(out, inB)
	})
	require.NoError(t, err)

	f, err := fabric.Build(dl)
	require.NoError(t, err)

	senders, err := f.TakeOutputSenders(out.UUID)
	require.NoError(t, err)
	require.Len(t, senders, 2)
}

func TestBuildSharesOneQueryableRequestChannelAcrossQueries(t *testing.T) {
	l := layout.New()

	var qable, q1, q2 layout.EndpointID
	l.Node("service", func(b *layout.Builder) { qable = b.Queryable("lookup") })
	l.Node("c1", func(b *layout.Builder) { q1 = b.Query("lookup") })
	l.Node("c2", func(b *layout.Builder) { q2 = b.Query("lookup") })

	dl, err := l.Finish(func(fl *layout.FlowBuilder) error {
		if err := fl.Connect(q1, qable); err != nil {
			return err
		}
		return fl.Connect(q2, qable)
	})
	require.NoError(t, err)

	f, err := fabric.Build(dl)
	require.NoError(t, err)

	sender1, err := f.TakeQuerySender(q1.UUID)
	require.NoError(t, err)
	sender2, err := f.TakeQuerySender(q2.UUID)
	require.NoError(t, err)

	receiver, err := f.TakeQueryableReceiver(qable.UUID)
	require.NoError(t, err)

	sender1 <- testEnvelope()
	sender2 <- testEnvelope()

	<-receiver
	<-receiver

	replySenders, err := f.TakeQueryableSenders(qable.UUID)
	require.NoError(t, err)
	assert.Contains(t, replySenders, q1.UUID)
	assert.Contains(t, replySenders, q2.UUID)
	assert.Len(t, replySenders, 2)
}

func TestTakeInputReceiverIsMoveOnce(t *testing.T) {
	l := layout.New()

	var out, in layout.EndpointID
	l.Node("source", func(b *layout.Builder) { out = b.Output("x") })
	l.Node("sink", func(b *layout.Builder) { in = b.Input("x") })

	dl, err := l.Finish(func(fl *layout.FlowBuilder) error { return fl.Connect(out, in) })
	require.NoError(t, err)

	f, err := fabric.Build(dl)
	require.NoError(t, err)

	_, err = f.TakeInputReceiver(in.UUID)
	require.NoError(t, err)

	_, err = f.TakeInputReceiver(in.UUID)
	assert.Error(t, err, "a second take of the same input must fail")
}

func TestBuildWithCapacityBoundsChannelBuffer(t *testing.T) {
	l := layout.New()

	var out, in layout.EndpointID
	l.Node("source", func(b *layout.Builder) { out = b.Output("tick") })
	l.Node("sink", func(b *layout.Builder) { in = b.Input("tick") })

	dl, err := l.Finish(func(fl *layout.FlowBuilder) error { return fl.Connect(out, in) })
	require.NoError(t, err)

	f, err := fabric.BuildWithCapacity(dl, 2)
	require.NoError(t, err)

	senders, err := f.TakeOutputSenders(out.UUID)
	require.NoError(t, err)
	require.Len(t, senders, 1)

	senders[0] <- testEnvelope()
	senders[0] <- testEnvelope()

	select {
	case senders[0] <- testEnvelope():
		t.Fatal("expected the third send to block on a capacity-2 channel")
	default:
	}
}

func TestBuildWithCapacityRejectsNonPositive(t *testing.T) {
	l := layout.New()
	l.Node("source", func(b *layout.Builder) {})
	dl, err := l.Finish(func(fl *layout.FlowBuilder) error { return nil })
	require.NoError(t, err)

	_, err = fabric.BuildWithCapacity(dl, 0)
	assert.Error(t, err)
}

func testEnvelope() message.Envelope {
	return message.Envelope{
		Header: message.Header{
			Timestamp: clock.New().Now(),
			Source:    message.Source{NodeID: uuid.New(), EndpointID: uuid.New()},
		},
	}
}
