package builtins

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/arrowmesh/arrowmesh/go/node"
)

var (
	printerTimestamp = color.New(color.Faint).SprintFunc()
	printerSource    = color.New(color.Bold).SprintFunc()
)

// Printer is a sink node that prints every envelope it receives to
// stdout, with the header colorized for terminal readability.
type Printer struct {
	input node.RawInput
}

// NewPrinter is a node.Constructor: it binds the node's single "in"
// input and ignores configuration.
func NewPrinter(_ context.Context, in *node.Inputs, _ *node.Outputs, _ *node.Queries, _ *node.Queryables, _ yaml.Node) (node.Node, error) {
	input, err := in.Raw("in")
	if err != nil {
		return nil, err
	}
	return &Printer{input: input}, nil
}

// Start prints envelopes until the input channel closes or ctx is
// cancelled.
func (p *Printer) Start(ctx context.Context) error {
	for {
		env, err := p.input.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		fmt.Printf("[%s] %s -> %v\n",
			printerTimestamp(env.Header.Timestamp.String()),
			printerSource(env.Header.Source.EndpointID),
			env.Payload,
		)
	}
}
