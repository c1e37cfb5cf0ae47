// Package fabric realizes a frozen layout as a set of bounded Go
// channels: one per input (fed by the output connected to it), one per
// query/queryable reply path, and one canonical request channel per
// queryable shared by every query bound to it.
package fabric

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/arrowmesh/arrowmesh/go/layout"
	"github.com/arrowmesh/arrowmesh/go/message"
)

// Capacity is the default bound on every channel the fabric allocates
// when no override is given to BuildWithCapacity. A full channel
// applies backpressure to the sender rather than dropping or growing
// without limit.
const Capacity = 128

// Fabric holds every channel endpoint produced from a layout, keyed by
// the endpoint UUIDs the layout assigned. Endpoints are handed out
// exactly once via the Take* methods; node construction acquires its
// handles up front, and the hot path afterward touches no shared state.
type Fabric struct {
	mu sync.Mutex

	inputReceivers map[uuid.UUID]chan message.Envelope   // keyed by input ID
	outputSenders  map[uuid.UUID][]chan message.Envelope // keyed by output ID

	querySenders    map[uuid.UUID]chan message.Envelope // keyed by query ID
	queryReceivers  map[uuid.UUID]chan message.Envelope // keyed by query ID

	queryableSenders   map[uuid.UUID]map[uuid.UUID]chan message.Envelope // queryable ID -> query ID -> reply sender
	queryableReceivers map[uuid.UUID]chan message.Envelope                // keyed by queryable ID
}

// Build allocates the channel topology for a frozen layout, using the
// default channel capacity.
func Build(dl *layout.DataflowLayout) (*Fabric, error) {
	return BuildWithCapacity(dl, Capacity)
}

// BuildWithCapacity allocates the channel topology for a frozen layout,
// bounding every channel at capacity instead of the package default.
func BuildWithCapacity(dl *layout.DataflowLayout, capacity int) (*Fabric, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("fabric: capacity must be positive, got %d", capacity)
	}

	f := &Fabric{
		inputReceivers:     make(map[uuid.UUID]chan message.Envelope),
		outputSenders:      make(map[uuid.UUID][]chan message.Envelope),
		querySenders:       make(map[uuid.UUID]chan message.Envelope),
		queryReceivers:     make(map[uuid.UUID]chan message.Envelope),
		queryableSenders:   make(map[uuid.UUID]map[uuid.UUID]chan message.Envelope),
		queryableReceivers: make(map[uuid.UUID]chan message.Envelope),
	}

	queryableQueries := make(map[uuid.UUID]map[uuid.UUID]struct{})

	for _, c := range dl.Connections() {
		a, b := c[0], c[1]

		if dl.HasOutput(a) {
			if _, taken := f.inputReceivers[b]; !taken {
				ch := make(chan message.Envelope, capacity)
				f.inputReceivers[b] = ch
				f.outputSenders[a] = append(f.outputSenders[a], ch)
			}
		}

		if dl.HasQueryable(a) {
			if _, taken := f.queryReceivers[b]; !taken {
				ch := make(chan message.Envelope, capacity)
				f.queryReceivers[b] = ch

				senders, ok := f.queryableSenders[a]
				if !ok {
					senders = make(map[uuid.UUID]chan message.Envelope)
					f.queryableSenders[a] = senders
				}
				if _, exists := senders[b]; !exists {
					senders[b] = ch
				}
			}
		}

		if dl.HasQuery(a) {
			if _, taken := f.querySenders[a]; !taken {
				query, queryable := a, b

				if _, hasReceiver := f.queryableReceivers[queryable]; !hasReceiver {
					ch := make(chan message.Envelope, capacity)
					f.querySenders[query] = ch
					f.queryableReceivers[queryable] = ch
				} else {
					siblings := queryableQueries[queryable]
					var otherQuery uuid.UUID
					found := false
					for sibling := range siblings {
						otherQuery = sibling
						found = true
						break
					}
					if !found {
						return nil, fmt.Errorf("fabric: queryable %q has a request channel but no prior query on record",
							dl.Label(queryable))
					}
					sender, ok := f.querySenders[otherQuery]
					if !ok {
						return nil, fmt.Errorf("fabric: query %q has no canonical sender despite being on record",
							dl.Label(otherQuery))
					}
					f.querySenders[query] = sender
				}

				if queryableQueries[queryable] == nil {
					queryableQueries[queryable] = make(map[uuid.UUID]struct{})
				}
				queryableQueries[queryable][query] = struct{}{}
			}
		}
	}

	return f, nil
}

// TakeInputReceiver removes and returns the receive side of an input's
// channel. Returns an error if the input is unknown or was already
// taken (or never connected, in which case it was never allocated).
func (f *Fabric) TakeInputReceiver(id uuid.UUID) (<-chan message.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.inputReceivers[id]
	if !ok {
		return nil, fmt.Errorf("fabric: no receiver allocated for input %s (is it connected?)", id)
	}
	delete(f.inputReceivers, id)
	return ch, nil
}

// TakeOutputSenders removes and returns the fan-out send sides for an
// output. An output with zero subscribers returns an empty, non-nil
// slice rather than an error: sending to nobody is valid.
func (f *Fabric) TakeOutputSenders(id uuid.UUID) ([]chan<- message.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw := f.outputSenders[id]
	delete(f.outputSenders, id)

	out := make([]chan<- message.Envelope, len(raw))
	for i, ch := range raw {
		out[i] = ch
	}
	return out, nil
}

// TakeQuerySender removes and returns the canonical request sender for
// a query endpoint.
func (f *Fabric) TakeQuerySender(id uuid.UUID) (chan<- message.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.querySenders[id]
	if !ok {
		return nil, fmt.Errorf("fabric: no request sender allocated for query %s (is it connected?)", id)
	}
	delete(f.querySenders, id)
	return ch, nil
}

// TakeQueryReceiver removes and returns the reply receiver for a query
// endpoint.
func (f *Fabric) TakeQueryReceiver(id uuid.UUID) (<-chan message.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.queryReceivers[id]
	if !ok {
		return nil, fmt.Errorf("fabric: no reply receiver allocated for query %s (is it connected?)", id)
	}
	delete(f.queryReceivers, id)
	return ch, nil
}

// TakeQueryableSenders removes and returns a queryable's per-query reply
// senders, keyed by the requesting query's endpoint ID.
func (f *Fabric) TakeQueryableSenders(id uuid.UUID) (map[uuid.UUID]chan<- message.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, ok := f.queryableSenders[id]
	if !ok {
		return map[uuid.UUID]chan<- message.Envelope{}, nil
	}
	delete(f.queryableSenders, id)

	out := make(map[uuid.UUID]chan<- message.Envelope, len(raw))
	for k, ch := range raw {
		out[k] = ch
	}
	return out, nil
}

// TakeQueryableReceiver removes and returns the canonical request
// receiver for a queryable endpoint.
func (f *Fabric) TakeQueryableReceiver(id uuid.UUID) (<-chan message.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.queryableReceivers[id]
	if !ok {
		return nil, fmt.Errorf("fabric: no request receiver allocated for queryable %s (is it connected?)", id)
	}
	delete(f.queryableReceivers, id)
	return ch, nil
}
