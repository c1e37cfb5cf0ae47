package builtins

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/arrowmesh/arrowmesh/go/message"
	"github.com/arrowmesh/arrowmesh/go/node"
)

// Timer emits a fixed "tick" payload at a configurable frequency.
type Timer struct {
	output   node.Output[message.Text, *message.Text]
	interval time.Duration
	log      *logrus.Entry
}

type timerConfig struct {
	Frequency float64 `yaml:"frequency"`
}

// NewTimer is a node.Constructor: it reads the "frequency" (Hz, default
// 1.0) config key and binds the node's single "out" output.
func NewTimer(_ context.Context, _ *node.Inputs, out *node.Outputs, _ *node.Queries, _ *node.Queryables, config yaml.Node) (node.Node, error) {
	cfg := timerConfig{Frequency: 1.0}
	if !config.IsZero() {
		if err := config.Decode(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.Frequency <= 0 {
		cfg.Frequency = 1.0
	}

	output, err := node.WithOutput[message.Text, *message.Text](out, "out")
	if err != nil {
		return nil, err
	}

	return &Timer{
		output:   output,
		interval: time.Duration(float64(time.Second) / cfg.Frequency),
		log:      logrus.WithField("builtin", "timer"),
	}, nil
}

// Start sends "tick" on every interval until ctx is cancelled or a send
// fails.
func (t *Timer) Start(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		if err := t.output.Send(ctx, message.Text("tick")); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			t.log.WithError(err).Warn("failed to send tick")
			return err
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil
		}
	}
}
