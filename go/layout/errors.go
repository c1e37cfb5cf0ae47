package layout

import "errors"

// Sentinel errors identifying the LayoutError taxonomy. Wrapped with
// context via fmt.Errorf("...: %w", ...) at the call site so callers can
// still errors.Is against these.
var (
	// ErrDuplicateLabel is returned when a node declares two endpoints of
	// the same kind (or not — labels are unique per node regardless of
	// kind) under the same label.
	ErrDuplicateLabel = errors.New("layout: duplicate endpoint label on node")

	// ErrUnknownEndpoint is returned when a connection references an
	// endpoint ID that is not present in the frozen endpoint table.
	ErrUnknownEndpoint = errors.New("layout: endpoint not present in layout")

	// ErrIllegalConnection is returned when a connection's endpoint kinds
	// are not one of (Output, Input) or (Query, Queryable).
	ErrIllegalConnection = errors.New("layout: illegal endpoint kind combination")

	// ErrInputFanIn is returned when an input endpoint would receive a
	// second connection; fan-in on inputs is forbidden.
	ErrInputFanIn = errors.New("layout: input endpoint already connected")

	// ErrQueryFanOut is returned when a query endpoint would be bound to
	// a second queryable; a query addresses exactly one service.
	ErrQueryFanOut = errors.New("layout: query endpoint already bound to a queryable")
)
