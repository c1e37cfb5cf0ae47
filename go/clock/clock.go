// Package clock implements a hybrid logical clock: a timestamp source
// that combines wall-clock time with a logical counter so that
// timestamps generated by a single process are strictly monotone even
// when the wall clock stalls or runs backward.
//
// There is no third-party Go library in the reference stack for this;
// the algorithm is small (a single compare-and-swap loop) and is
// hand-rolled here rather than pulled in as a dependency.
package clock

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Timestamp is an HLC reading: a wall-clock component in Unix
// nanoseconds and a logical counter that disambiguates readings that
// land on the same (or an earlier) wall-clock instant.
type Timestamp struct {
	Wall    int64
	Logical uint32
}

// Compare orders two timestamps, wall-clock first, then logical counter.
func (t Timestamp) Compare(other Timestamp) int {
	switch {
	case t.Wall < other.Wall:
		return -1
	case t.Wall > other.Wall:
		return 1
	case t.Logical < other.Logical:
		return -1
	case t.Logical > other.Logical:
		return 1
	default:
		return 0
	}
}

// Before reports whether t happened strictly before other.
func (t Timestamp) Before(other Timestamp) bool { return t.Compare(other) < 0 }

func (t Timestamp) String() string {
	return fmt.Sprintf("%s.%d", time.Unix(0, t.Wall).UTC().Format(time.RFC3339Nano), t.Logical)
}

// packed holds the Clock's last reading as two separate atomics, wall
// and logical, rather than one packed word; updates go through a CAS on
// wall followed by a separate write to logical.
type packed struct {
	wall    atomic.Int64
	logical atomic.Uint32
}

// Clock is a hybrid logical clock scoped to one process. It supports
// concurrent timestamp generation: Now and Observe are both lock-free
// and may be called from any number of goroutines simultaneously. The
// zero value is not usable; construct with New.
type Clock struct {
	now func() int64
	p   *packed
}

// New returns a Clock that reads wall time from time.Now.
func New() *Clock {
	return &Clock{
		now: func() int64 { return time.Now().UnixNano() },
		p:   &packed{},
	}
}

// Now produces the next timestamp for a locally originated event: an
// event with no causal predecessor observed from elsewhere. The result
// is guaranteed strictly greater than every timestamp previously
// returned by Now or Observe on this Clock.
func (c *Clock) Now() Timestamp {
	for {
		wallNow := c.now()
		prevWall := c.p.wall.Load()

		if wallNow > prevWall {
			if c.p.wall.CompareAndSwap(prevWall, wallNow) {
				c.p.logical.Store(0)
				return Timestamp{Wall: wallNow, Logical: 0}
			}
			continue
		}

		// Wall clock did not advance past our last reading: tick the
		// logical counter forward instead, keeping wall pinned.
		if !c.p.wall.CompareAndSwap(prevWall, prevWall) {
			continue
		}
		logical := c.p.logical.Add(1)
		return Timestamp{Wall: prevWall, Logical: logical}
	}
}

// Observe merges in a timestamp received from another process (e.g.
// attached to an inbound envelope) and produces a timestamp that is
// guaranteed strictly greater than both remote and every timestamp
// previously produced locally. Nodes that only ever call Now (never
// Observe) still get a monotone sequence; Observe is what lets a
// dataflow propagate causality across process boundaries if one is
// introduced later.
func (c *Clock) Observe(remote Timestamp) Timestamp {
	for {
		wallNow := c.now()
		prevWall := c.p.wall.Load()
		prevLogical := c.p.logical.Load()

		maxWall := wallNow
		if prevWall > maxWall {
			maxWall = prevWall
		}
		if remote.Wall > maxWall {
			maxWall = remote.Wall
		}

		var nextLogical uint32
		switch maxWall {
		case prevWall, remote.Wall:
			// Wall time did not strictly advance past at least one of the
			// inputs sharing maxWall; logical must advance past whichever
			// of the tied sources is largest.
			nextLogical = prevLogical
			if maxWall == remote.Wall && remote.Logical >= nextLogical {
				nextLogical = remote.Logical
			}
			nextLogical++
		default:
			nextLogical = 0
		}

		if c.p.wall.CompareAndSwap(prevWall, maxWall) {
			c.p.logical.Store(nextLogical)
			return Timestamp{Wall: maxWall, Logical: nextLogical}
		}
	}
}
