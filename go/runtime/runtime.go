// Package runtime wires plugin resolution to a frozen layout and
// channel fabric, drives node construction concurrently, then
// supervises cooperative execution of every node's Start until
// completion, aggregated failure, or interrupt.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/arrowmesh/arrowmesh/go/fabric"
	"github.com/arrowmesh/arrowmesh/go/layout"
	"github.com/arrowmesh/arrowmesh/go/plugin"
)

// Runtime supervises one dataflow's lifetime.
type Runtime struct {
	fileExt   *plugin.FileExtManager
	urlScheme *plugin.URLSchemeManager
	metrics   *Metrics
	capacity  int
	log       *logrus.Entry
}

// New creates a Runtime backed by the given plugin managers. metrics
// may be nil to disable instrumentation. The fabric's per-channel
// capacity defaults to fabric.Capacity; override it with WithCapacity.
func New(fileExt *plugin.FileExtManager, urlScheme *plugin.URLSchemeManager, metrics *Metrics) *Runtime {
	return &Runtime{
		fileExt:   fileExt,
		urlScheme: urlScheme,
		metrics:   metrics,
		capacity:  fabric.Capacity,
		log:       logrus.WithField("component", "runtime"),
	}
}

// WithCapacity overrides the bound on every channel the fabric
// allocates for this Runtime's dataflow, in place of the package
// default.
func (r *Runtime) WithCapacity(capacity int) *Runtime {
	r.capacity = capacity
	return r
}

// Run builds the channel fabric for dl, invokes loadFn to register
// every node's construction against the returned Loader, constructs
// them all concurrently, then runs every constructed node's Start
// concurrently until they all complete or the process receives an
// interrupt. A failing node does not stop its siblings; once every
// Start has returned, Run returns all of their failures joined into one
// error.
//
// On interrupt, Run returns nil immediately without draining node
// tasks: they are left running and abandoned. Run neither cancels the
// context their Start received nor closes any fabric channel, so an
// abandoned task stops only when its own Start returns.
func (r *Runtime) Run(ctx context.Context, dl *layout.DataflowLayout, loadFn func(*Loader)) error {
	fab, err := fabric.BuildWithCapacity(dl, r.capacity)
	if err != nil {
		return fmt.Errorf("runtime: failed to build fabric: %w", err)
	}

	interruptCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := newLoader(interruptCtx, fab, r.fileExt, r.urlScheme, r.metrics, r.log)
	loadFn(loader)

	nodes, err := loader.Finish()
	if err != nil {
		return fmt.Errorf("runtime: node construction failed: %w", err)
	}
	r.log.WithField("count", len(nodes)).Debug("runtime: all nodes constructed, starting")

	// runCtx is deliberately not derived from the node tasks themselves:
	// one node's failure must not cancel its siblings. Every task runs
	// to completion (or to process interrupt) and every failure is
	// collected, not just the first.
	runCtx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error
	for _, n := range nodes {
		n := n
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.metrics != nil {
				r.metrics.NodesRunning.Inc()
				defer r.metrics.NodesRunning.Dec()
			}
			if err := n.inst.Start(runCtx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("node %q (%s): %w", n.id.Label, n.id.UUID, err))
				mu.Unlock()
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-interruptCtx.Done():
		r.log.Info("runtime: interrupt received, returning without draining node tasks")
		return nil
	case <-done:
		mu.Lock()
		defer mu.Unlock()
		return errors.Join(errs...)
	}
}
