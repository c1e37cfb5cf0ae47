package builtins

import (
	"context"

	"gopkg.in/yaml.v3"

	"github.com/arrowmesh/arrowmesh/go/node"
)

// Transport copies every envelope from its input straight to its
// output. RawOutput.Send stamps a fresh header on the way out, so the
// relayed message carries Transport's own identity as its source, not
// the original sender's.
type Transport struct {
	input  node.RawInput
	output node.RawOutput
}

// NewTransport is a node.Constructor: it binds the node's "in" input
// and "out" output and ignores configuration.
func NewTransport(_ context.Context, in *node.Inputs, out *node.Outputs, _ *node.Queries, _ *node.Queryables, _ yaml.Node) (node.Node, error) {
	input, err := in.Raw("in")
	if err != nil {
		return nil, err
	}
	output, err := out.Raw("out")
	if err != nil {
		return nil, err
	}
	return &Transport{input: input, output: output}, nil
}

// Start relays envelopes until the input channel closes, ctx is
// cancelled, or a send fails.
func (t *Transport) Start(ctx context.Context) error {
	for {
		env, err := t.input.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := t.output.Send(ctx, env.Payload); err != nil {
			return err
		}
	}
}
