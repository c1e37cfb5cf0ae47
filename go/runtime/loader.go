package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/arrowmesh/arrowmesh/go/clock"
	"github.com/arrowmesh/arrowmesh/go/fabric"
	"github.com/arrowmesh/arrowmesh/go/layout"
	"github.com/arrowmesh/arrowmesh/go/node"
	"github.com/arrowmesh/arrowmesh/go/plugin"
)

// runtimeNode pairs a constructed node with the identity it was built
// for, so a later Start failure can be reported against a label and
// UUID rather than an opaque node.Node value.
type runtimeNode struct {
	id   layout.NodeID
	inst node.Node
}

// Loader accumulates node-construction work and runs it concurrently.
// Every node in a dataflow is constructed before any node is started, so
// constructors may assume no sibling's Start has begun yet. Obtain a
// Loader from the closure passed to Runtime.Run; it is not meant to be
// constructed directly.
type Loader struct {
	fab       *fabric.Fabric
	clock     *clock.Clock
	fileExt   *plugin.FileExtManager
	urlScheme *plugin.URLSchemeManager
	metrics   *Metrics
	log       *logrus.Entry

	group *errgroup.Group
	gctx  context.Context

	mu    sync.Mutex
	nodes []runtimeNode
}

func newLoader(ctx context.Context, fab *fabric.Fabric, fileExt *plugin.FileExtManager, urlScheme *plugin.URLSchemeManager, metrics *Metrics, log *logrus.Entry) *Loader {
	group, gctx := errgroup.WithContext(ctx)
	return &Loader{
		fab:       fab,
		clock:     clock.New(),
		fileExt:   fileExt,
		urlScheme: urlScheme,
		metrics:   metrics,
		log:       log,
		group:     group,
		gctx:      gctx,
	}
}

func (l *Loader) endpoints(id layout.NodeID) (*node.Inputs, *node.Outputs, *node.Queries, *node.Queryables) {
	in := node.NewInputs(l.fab, id)
	out := node.NewOutputs(l.fab, l.clock, id)
	q := node.NewQueries(l.fab, l.clock, id)
	qable := node.NewQueryables(l.fab, l.clock, id)
	if l.metrics != nil {
		out = out.WithMetrics(l.metrics)
		qable = qable.WithMetrics(l.metrics)
	}
	return in, out, q, qable
}

func (l *Loader) spawn(id layout.NodeID, build func(ctx context.Context, in *node.Inputs, out *node.Outputs, q *node.Queries, qable *node.Queryables) (node.Node, error)) {
	l.group.Go(func() error {
		in, out, q, qable := l.endpoints(id)

		inst, err := build(l.gctx, in, out, q, qable)
		if err != nil {
			return fmt.Errorf("runtime: constructing node %q (%s): %w", id.Label, id.UUID, err)
		}

		l.mu.Lock()
		l.nodes = append(l.nodes, runtimeNode{id: id, inst: inst})
		l.mu.Unlock()

		if l.metrics != nil {
			l.metrics.NodesConstructed.Inc()
		}
		l.log.WithFields(logrus.Fields{"node": id.Label, "uuid": id.UUID}).Debug("runtime: node constructed")
		return nil
	})
}

// Load constructs a statically typed node via ctor, acquiring its
// endpoint handles from the fabric. Construction runs concurrently with
// every other Load/LoadURL call issued before Finish.
func (l *Loader) Load(id layout.NodeID, ctor node.Constructor, config yaml.Node) {
	l.spawn(id, func(ctx context.Context, in *node.Inputs, out *node.Outputs, q *node.Queries, qable *node.Queryables) (node.Node, error) {
		return ctor(ctx, in, out, q, qable, config)
	})
}

// LoadURL constructs a node by resolving url through the runtime's
// URL-scheme manager (builtin:/, file://, or a custom registered
// scheme).
func (l *Loader) LoadURL(id layout.NodeID, url string, config yaml.Node) {
	l.spawn(id, func(ctx context.Context, in *node.Inputs, out *node.Outputs, q *node.Queries, qable *node.Queryables) (node.Node, error) {
		return l.urlScheme.Load(ctx, url, in, out, q, qable, config)
	})
}

// LoadFile constructs a node by resolving path through the runtime's
// file-extension manager directly, bypassing URL parsing.
func (l *Loader) LoadFile(id layout.NodeID, path string, config yaml.Node) {
	l.spawn(id, func(ctx context.Context, in *node.Inputs, out *node.Outputs, q *node.Queries, qable *node.Queryables) (node.Node, error) {
		return l.fileExt.Load(ctx, path, in, out, q, qable, config)
	})
}

// Finish awaits every construction task issued so far. The first
// failure fails the whole load; on success it returns every constructed
// node keyed by its NodeID UUID.
func (l *Loader) Finish() (map[uuid.UUID]runtimeNode, error) {
	if err := l.group.Wait(); err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]runtimeNode, len(l.nodes))
	for _, n := range l.nodes {
		out[n.id.UUID] = n
	}
	return out, nil
}
