package runtime_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arrowmesh/arrowmesh/go/layout"
	"github.com/arrowmesh/arrowmesh/go/node"
	"github.com/arrowmesh/arrowmesh/go/runtime"
)

type fakeNode struct {
	start func(context.Context) error
}

func (f *fakeNode) Start(ctx context.Context) error { return f.start(ctx) }

func singleNodeLayout(t *testing.T) (*layout.DataflowLayout, layout.NodeID) {
	t.Helper()
	l := layout.New()
	id := l.Node("worker", func(b *layout.Builder) {})
	dl, err := l.Finish(func(f *layout.FlowBuilder) error { return nil })
	require.NoError(t, err)
	return dl, id
}

func TestRunHonorsWithCapacity(t *testing.T) {
	dl, id := singleNodeLayout(t)
	rt := runtime.New(nil, nil, nil).WithCapacity(4)

	ctor := func(_ context.Context, _ *node.Inputs, _ *node.Outputs, _ *node.Queries, _ *node.Queryables, _ yaml.Node) (node.Node, error) {
		return &fakeNode{start: func(context.Context) error { return nil }}, nil
	}

	err := rt.Run(context.Background(), dl, func(l *runtime.Loader) {
		l.Load(id, ctor, yaml.Node{})
	})
	require.NoError(t, err)
}

func TestRunConstructsAndStartsNodes(t *testing.T) {
	dl, id := singleNodeLayout(t)
	rt := runtime.New(nil, nil, runtime.NewMetrics(prometheus.NewRegistry()))

	started := make(chan struct{}, 1)
	ctor := func(_ context.Context, _ *node.Inputs, _ *node.Outputs, _ *node.Queries, _ *node.Queryables, _ yaml.Node) (node.Node, error) {
		return &fakeNode{start: func(context.Context) error {
			started <- struct{}{}
			return nil
		}}, nil
	}

	err := rt.Run(context.Background(), dl, func(l *runtime.Loader) {
		l.Load(id, ctor, yaml.Node{})
	})
	require.NoError(t, err)

	select {
	case <-started:
	default:
		t.Fatal("node Start was never invoked")
	}
}

func TestRunAggregatesNodeStartFailure(t *testing.T) {
	dl, id := singleNodeLayout(t)
	rt := runtime.New(nil, nil, nil)

	boom := errors.New("boom")
	ctor := func(_ context.Context, _ *node.Inputs, _ *node.Outputs, _ *node.Queries, _ *node.Queryables, _ yaml.Node) (node.Node, error) {
		return &fakeNode{start: func(context.Context) error { return boom }}, nil
	}

	err := rt.Run(context.Background(), dl, func(l *runtime.Loader) {
		l.Load(id, ctor, yaml.Node{})
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "worker")
}

func twoNodeLayout(t *testing.T) (*layout.DataflowLayout, layout.NodeID, layout.NodeID) {
	t.Helper()
	l := layout.New()
	a := l.Node("alpha", func(b *layout.Builder) {})
	b := l.Node("beta", func(b *layout.Builder) {})
	dl, err := l.Finish(func(f *layout.FlowBuilder) error { return nil })
	require.NoError(t, err)
	return dl, a, b
}

func TestRunAggregatesAllNodeStartFailures(t *testing.T) {
	dl, a, b := twoNodeLayout(t)
	rt := runtime.New(nil, nil, nil)

	errA := errors.New("alpha boom")
	errB := errors.New("beta boom")
	ctorA := func(_ context.Context, _ *node.Inputs, _ *node.Outputs, _ *node.Queries, _ *node.Queryables, _ yaml.Node) (node.Node, error) {
		return &fakeNode{start: func(context.Context) error { return errA }}, nil
	}
	ctorB := func(_ context.Context, _ *node.Inputs, _ *node.Outputs, _ *node.Queries, _ *node.Queryables, _ yaml.Node) (node.Node, error) {
		return &fakeNode{start: func(context.Context) error { return errB }}, nil
	}

	err := rt.Run(context.Background(), dl, func(l *runtime.Loader) {
		l.Load(a, ctorA, yaml.Node{})
		l.Load(b, ctorB, yaml.Node{})
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Contains(t, err.Error(), "alpha")
	assert.Contains(t, err.Error(), "beta")
}

func TestRunDoesNotCancelSiblingOnNodeFailure(t *testing.T) {
	dl, a, b := twoNodeLayout(t)
	rt := runtime.New(nil, nil, nil)

	boom := errors.New("boom")
	completed := make(chan struct{}, 1)
	ctorA := func(_ context.Context, _ *node.Inputs, _ *node.Outputs, _ *node.Queries, _ *node.Queryables, _ yaml.Node) (node.Node, error) {
		return &fakeNode{start: func(context.Context) error { return boom }}, nil
	}
	ctorB := func(_ context.Context, _ *node.Inputs, _ *node.Outputs, _ *node.Queries, _ *node.Queryables, _ yaml.Node) (node.Node, error) {
		return &fakeNode{start: func(ctx context.Context) error {
			select {
			case <-time.After(100 * time.Millisecond):
				completed <- struct{}{}
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}}, nil
	}

	err := rt.Run(context.Background(), dl, func(l *runtime.Loader) {
		l.Load(a, ctorA, yaml.Node{})
		l.Load(b, ctorB, yaml.Node{})
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	select {
	case <-completed:
	default:
		t.Fatal("sibling node was cancelled instead of running to completion")
	}
}

func TestRunPropagatesConstructionFailure(t *testing.T) {
	dl, id := singleNodeLayout(t)
	rt := runtime.New(nil, nil, nil)

	boom := errors.New("bad config")
	ctor := func(_ context.Context, _ *node.Inputs, _ *node.Outputs, _ *node.Queries, _ *node.Queryables, _ yaml.Node) (node.Node, error) {
		return nil, boom
	}

	err := rt.Run(context.Background(), dl, func(l *runtime.Loader) {
		l.Load(id, ctor, yaml.Node{})
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
