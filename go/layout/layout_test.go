package layout_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrowmesh/arrowmesh/go/layout"
)

func TestEndpointIDsAreDeterministic(t *testing.T) {
	node := layout.NewNodeID("camera")

	a := node.Output("frame")
	b := node.Output("frame")
	assert.Equal(t, a.UUID, b.UUID, "same (node, label) must hash to the same endpoint ID")

	other := node.Output("depth")
	assert.NotEqual(t, a.UUID, other.UUID)
}

func TestEndpointKindsAreDisjoint(t *testing.T) {
	node := layout.NewNodeID("camera")

	in := node.Input("x")
	out := node.Output("x")
	q := node.Query("x")
	qable := node.Queryable("x")

	ids := []layout.EndpointID{in, out, q, qable}
	for i := range ids {
		for j := range ids {
			if i == j {
				continue
			}
			assert.Equal(t, ids[i].UUID, ids[j].UUID,
				"the endpoint UUID hashes only (node, label), so a shared label yields the same UUID")
			assert.NotEqual(t, ids[i].Kind, ids[j].Kind,
				"endpoints of different kinds are kept disjoint by their kind tag, not by their UUID")
		}
	}
}

func TestDuplicateLabelOnNodeIsRejected(t *testing.T) {
	l := layout.New()

	l.Node("camera", func(b *layout.Builder) {
		b.Output("frame")
		b.Output("frame")
	})

	_, err := l.Finish(func(f *layout.FlowBuilder) error { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, layout.ErrDuplicateLabel)
}

func TestOutputInputConnectionRoundTrips(t *testing.T) {
	l := layout.New()

	var frameOut, frameIn layout.EndpointID
	camera := l.Node("camera", func(b *layout.Builder) {
		frameOut = b.Output("frame")
	})
	viewer := l.Node("viewer", func(b *layout.Builder) {
		frameIn = b.Input("frame")
	})
	_ = camera
	_ = viewer

	dl, err := l.Finish(func(f *layout.FlowBuilder) error {
		return f.Connect(frameOut, frameIn)
	})
	require.NoError(t, err)

	conns := dl.Connections()
	require.Len(t, conns, 1)
	assert.Equal(t, frameOut.UUID, conns[0][0])
	assert.Equal(t, frameIn.UUID, conns[0][1])

	assert.True(t, dl.HasOutput(frameOut.UUID))
	assert.True(t, dl.HasInput(frameIn.UUID))
}

func TestInputFanInIsRejected(t *testing.T) {
	l := layout.New()

	var out1, out2, in layout.EndpointID
	l.Node("a", func(b *layout.Builder) { out1 = b.Output("x") })
	l.Node("b", func(b *layout.Builder) { out2 = b.Output("x") })
	l.Node("c", func(b *layout.Builder) { in = b.Input("x") })

	_, err := l.Finish(func(f *layout.FlowBuilder) error {
		if err := f.Connect(out1, in); err != nil {
			return err
		}
		return f.Connect(out2, in)
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, layout.ErrInputFanIn))
}

func TestQueryFanOutIsRejected(t *testing.T) {
	l := layout.New()

	var qable1, qable2, q layout.EndpointID
	l.Node("a", func(b *layout.Builder) { qable1 = b.Queryable("x") })
	l.Node("b", func(b *layout.Builder) { qable2 = b.Queryable("x") })
	l.Node("c", func(b *layout.Builder) { q = b.Query("x") })

	_, err := l.Finish(func(f *layout.FlowBuilder) error {
		if err := f.Connect(qable1, q); err != nil {
			return err
		}
		return f.Connect(qable2, q)
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, layout.ErrQueryFanOut))
}

func TestQueryQueryableConnectionRecordsBothDirections(t *testing.T) {
	l := layout.New()

	var qable, q layout.EndpointID
	l.Node("service", func(b *layout.Builder) { qable = b.Queryable("lookup") })
	l.Node("caller", func(b *layout.Builder) { q = b.Query("lookup") })

	dl, err := l.Finish(func(f *layout.FlowBuilder) error {
		return f.Connect(q, qable)
	})
	require.NoError(t, err)

	conns := dl.Connections()
	assert.Len(t, conns, 2, "request and reply paths are both recorded")
}

func TestIllegalConnectionKindsAreRejected(t *testing.T) {
	l := layout.New()

	var in, out layout.EndpointID
	l.Node("a", func(b *layout.Builder) { in = b.Input("x") })
	l.Node("b", func(b *layout.Builder) { out = b.Output("y") })

	_, err := l.Finish(func(f *layout.FlowBuilder) error {
		return f.Connect(in, in)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, layout.ErrIllegalConnection)

	_ = out
}

// TestConnectionClosure exercises the Open Question fix directly: both
// endpoints of a connection pair are checked against the frozen table, not
// just one side, so a connection naming an endpoint from a node that was
// never registered in this layout is rejected regardless of which
// argument position it appears in.
func TestConnectionClosure(t *testing.T) {
	foreign := layout.NewNodeID("ghost").Input("x")

	l := layout.New()
	var out layout.EndpointID
	l.Node("a", func(b *layout.Builder) { out = b.Output("x") })

	_, err := l.Finish(func(f *layout.FlowBuilder) error {
		return f.Connect(out, foreign)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, layout.ErrUnknownEndpoint)
}
