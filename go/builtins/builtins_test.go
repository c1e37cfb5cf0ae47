package builtins_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arrowmesh/arrowmesh/go/builtins"
	"github.com/arrowmesh/arrowmesh/go/clock"
	"github.com/arrowmesh/arrowmesh/go/fabric"
	"github.com/arrowmesh/arrowmesh/go/layout"
	"github.com/arrowmesh/arrowmesh/go/message"
	"github.com/arrowmesh/arrowmesh/go/node"
)

func buildPipeline(t *testing.T) (*layout.Layout, layout.NodeID, layout.NodeID, layout.EndpointID, layout.EndpointID) {
	t.Helper()
	l := layout.New()
	var outID, inID layout.EndpointID
	source := l.Node("timer", func(b *layout.Builder) { outID = b.Output("out") })
	sink := l.Node("sink", func(b *layout.Builder) { inID = b.Input("in") })
	return l, source, sink, outID, inID
}

func TestTimerWithFrequencyConfigEmitsTick(t *testing.T) {
	l, source, sink, outID, inID := buildPipeline(t)
	dl, err := l.Finish(func(f *layout.FlowBuilder) error { return f.Connect(outID, inID) })
	require.NoError(t, err)

	fab, err := fabric.Build(dl)
	require.NoError(t, err)

	c := clock.New()
	outs := node.NewOutputs(fab, c, source)
	ins := node.NewInputs(fab, sink)

	var cfgNode yaml.Node
	require.NoError(t, cfgNode.Encode(map[string]any{"frequency": 1000.0}))

	n, err := builtins.NewTimer(context.Background(), nil, outs, nil, nil, cfgNode)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- n.Start(ctx) }()

	input, err := node.WithInput[message.Text, *message.Text](ins, "in")
	require.NoError(t, err)

	_, value, err := input.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, message.Text("tick"), value)

	cancel()
	require.NoError(t, <-done)
}

func TestTransportRelaysPayloadWithFreshHeader(t *testing.T) {
	l := layout.New()
	var upstreamOut, transportIn, transportOut, downstreamIn layout.EndpointID
	upstream := l.Node("upstream", func(b *layout.Builder) { upstreamOut = b.Output("out") })
	relay := l.Node("transport", func(b *layout.Builder) {
		transportIn = b.Input("in")
		transportOut = b.Output("out")
	})
	downstream := l.Node("downstream", func(b *layout.Builder) { downstreamIn = b.Input("in") })

	dl, err := l.Finish(func(f *layout.FlowBuilder) error {
		if err := f.Connect(upstreamOut, transportIn); err != nil {
			return err
		}
		return f.Connect(transportOut, downstreamIn)
	})
	require.NoError(t, err)

	fab, err := fabric.Build(dl)
	require.NoError(t, err)
	c := clock.New()

	upstreamOutput, err := node.WithOutput[message.Int32, *message.Int32](node.NewOutputs(fab, c, upstream), "out")
	require.NoError(t, err)

	relayIn := node.NewInputs(fab, relay)
	relayOut := node.NewOutputs(fab, c, relay)
	transportNode, err := builtins.NewTransport(context.Background(), relayIn, relayOut, nil, nil, yaml.Node{})
	require.NoError(t, err)

	downstreamInput, err := node.WithInput[message.Int32, *message.Int32](node.NewInputs(fab, downstream), "in")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = transportNode.Start(ctx) }()

	require.NoError(t, upstreamOutput.Send(context.Background(), message.Int32(42)))

	header, value, err := downstreamInput.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, message.Int32(42), value)
	assert.Equal(t, relay.UUID, header.Source.NodeID)
}

func TestPluginDispatchesBuiltinURLs(t *testing.T) {
	p := builtins.Plugin{}
	assert.ElementsMatch(t, []string{"builtin"}, p.Schemes())

	_, err := p.Load(context.Background(), "builtin:/nonexistent", nil, nil, nil, nil, yaml.Node{})
	assert.Error(t, err)
}
