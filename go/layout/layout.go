package layout

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type dataSets struct {
	inputs     map[uuid.UUID]struct{}
	outputs    map[uuid.UUID]struct{}
	queries    map[uuid.UUID]struct{}
	queryables map[uuid.UUID]struct{}
}

func newDataSets() dataSets {
	return dataSets{
		inputs:     make(map[uuid.UUID]struct{}),
		outputs:    make(map[uuid.UUID]struct{}),
		queries:    make(map[uuid.UUID]struct{}),
		queryables: make(map[uuid.UUID]struct{}),
	}
}

func (d dataSets) clone() dataSets {
	c := newDataSets()
	for k := range d.inputs {
		c.inputs[k] = struct{}{}
	}
	for k := range d.outputs {
		c.outputs[k] = struct{}{}
	}
	for k := range d.queries {
		c.queries[k] = struct{}{}
	}
	for k := range d.queryables {
		c.queryables[k] = struct{}{}
	}
	return c
}

// kindOf reports which of the four disjoint sets id belongs to, if any.
func (d dataSets) kindOf(id uuid.UUID) (Kind, bool) {
	if _, ok := d.outputs[id]; ok {
		return Output, true
	}
	if _, ok := d.inputs[id]; ok {
		return Input, true
	}
	if _, ok := d.queries[id]; ok {
		return Query, true
	}
	if _, ok := d.queryables[id]; ok {
		return Queryable, true
	}
	return 0, false
}

type debugInfo struct {
	labels map[uuid.UUID]string
	nodes  map[uuid.UUID]map[uuid.UUID]struct{}
}

func newDebugInfo() debugInfo {
	return debugInfo{
		labels: make(map[uuid.UUID]string),
		nodes:  make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

func (d debugInfo) label(id uuid.UUID) string {
	if l, ok := d.labels[id]; ok {
		return l
	}
	return ""
}

func (d debugInfo) clone() debugInfo {
	c := newDebugInfo()
	for k, v := range d.labels {
		c.labels[k] = v
	}
	for k, v := range d.nodes {
		ios := make(map[uuid.UUID]struct{}, len(v))
		for io := range v {
			ios[io] = struct{}{}
		}
		c.nodes[k] = ios
	}
	return c
}

// Layout incrementally accumulates nodes and their endpoints. Build it
// with New, populate it with Node, then call Finish to validate
// connections and obtain an immutable DataflowLayout.
type Layout struct {
	mu   sync.Mutex
	data dataSets
	debug debugInfo
	errs []error
}

// New creates an empty, mutable layout.
func New() *Layout {
	return &Layout{
		data:  newDataSets(),
		debug: newDebugInfo(),
	}
}

// Node runs build against a fresh Builder scoped to a newly minted node,
// then merges the node's endpoints into the shared layout. build is free
// to capture outer variables to report back whichever endpoint IDs the
// caller needs; Node itself returns only the node's identifier.
func (l *Layout) Node(label string, build func(*Builder)) NodeID {
	node := NewNodeID(label)
	b := newBuilder(node)

	build(b)

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(b.errs) > 0 {
		l.errs = append(l.errs, b.errs...)
	}

	for id := range b.inputs {
		l.data.inputs[id] = struct{}{}
	}
	for id := range b.outputs {
		l.data.outputs[id] = struct{}{}
	}
	for id := range b.queries {
		l.data.queries[id] = struct{}{}
	}
	for id := range b.queryables {
		l.data.queryables[id] = struct{}{}
	}

	ios := make(map[uuid.UUID]struct{}, len(b.labels))
	for id := range b.labels {
		ios[id] = struct{}{}
	}
	l.debug.nodes[node.UUID] = ios

	for id, lbl := range b.labels {
		l.debug.labels[id] = lbl
	}
	l.debug.labels[node.UUID] = label

	logrus.WithFields(logrus.Fields{
		"node": label, "uuid": node.UUID,
	}).Debug("layout: node created")

	return node
}

// Finish runs connect against a fresh FlowBuilder, validates every
// resulting connection against the endpoint table, and returns a frozen
// DataflowLayout. Both endpoints of a malformed connection are checked
// independently so the reported error always names the specific
// offending endpoint, rather than only checking one side.
func (l *Layout) Finish(connect func(*FlowBuilder) error) (*DataflowLayout, error) {
	l.mu.Lock()
	pendingErrs := l.errs
	data := l.data.clone()
	debug := l.debug.clone()
	l.mu.Unlock()

	if len(pendingErrs) > 0 {
		return nil, fmt.Errorf("layout: failed to build nodes: %w", errors.Join(pendingErrs...))
	}

	flows := newFlowBuilder()
	if err := connect(flows); err != nil {
		return nil, fmt.Errorf("layout: failed to build flows: %w", err)
	}

	for p := range flows.connections {
		a, b := p[0], p[1]

		aKind, aOK := data.kindOf(a)
		if !aOK {
			return nil, fmt.Errorf("%w: %q (uuid %s)", ErrUnknownEndpoint, debug.label(a), a)
		}
		bKind, bOK := data.kindOf(b)
		if !bOK {
			return nil, fmt.Errorf("%w: %q (uuid %s)", ErrUnknownEndpoint, debug.label(b), b)
		}

		switch {
		case aKind == Output && bKind == Input:
		case aKind == Queryable && bKind == Query:
		case aKind == Query && bKind == Queryable:
		default:
			return nil, fmt.Errorf("%w: between %q (%s) and %q (%s)",
				ErrIllegalConnection, debug.label(a), aKind, debug.label(b), bKind)
		}
	}

	return &DataflowLayout{
		data:        data,
		debug:       debug,
		connections: flows.connections,
	}, nil
}

// DataflowLayout is the frozen, read-only description of a dataflow
// graph: the full endpoint table, debug labels, and validated
// connection set. It is safe to share across goroutines once built.
type DataflowLayout struct {
	data        dataSets
	debug       debugInfo
	connections map[pair]struct{}
}

// Label returns the debug label registered for a node or endpoint UUID,
// or the empty string if none was registered.
func (d *DataflowLayout) Label(id uuid.UUID) string { return d.debug.label(id) }

// Connections returns the validated (sender, receiver) pairs that make up
// the graph's edges, in the fabric's expected (a -> b) orientation.
func (d *DataflowLayout) Connections() [][2]uuid.UUID {
	out := make([][2]uuid.UUID, 0, len(d.connections))
	for p := range d.connections {
		out = append(out, [2]uuid.UUID{p[0], p[1]})
	}
	return out
}

// HasInput reports whether id is a registered input endpoint.
func (d *DataflowLayout) HasInput(id uuid.UUID) bool { _, ok := d.data.inputs[id]; return ok }

// HasOutput reports whether id is a registered output endpoint.
func (d *DataflowLayout) HasOutput(id uuid.UUID) bool { _, ok := d.data.outputs[id]; return ok }

// HasQuery reports whether id is a registered query endpoint.
func (d *DataflowLayout) HasQuery(id uuid.UUID) bool { _, ok := d.data.queries[id]; return ok }

// HasQueryable reports whether id is a registered queryable endpoint.
func (d *DataflowLayout) HasQueryable(id uuid.UUID) bool {
	_, ok := d.data.queryables[id]
	return ok
}

// String renders a per-node table of labelled IO, for diagnostics.
func (d *DataflowLayout) String() string {
	var sb strings.Builder
	for node, ios := range d.debug.nodes {
		fmt.Fprintf(&sb, "node %q (uuid: %s):\n", d.debug.label(node), node)
		for io := range ios {
			kind, _ := d.data.kindOf(io)
			fmt.Fprintf(&sb, "  %-9s %-20q (uuid: %s)\n", kind, d.debug.label(io), io)
		}
	}
	return sb.String()
}
