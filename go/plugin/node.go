// Package plugin resolves an opaque reference — a file path or a URL —
// to a concrete node implementation. Two independent managers cover the
// two ways a dataflow document names a node: FileExtManager by the
// path's extension, URLSchemeManager by the URL's scheme (delegating
// file:// back to FileExtManager). Each manager supports both
// statically linked plugins (compiled into this binary) and
// dynamically linked plugins (loaded from a shared library at
// runtime via the stdlib plugin package).
package plugin

import (
	"context"

	"gopkg.in/yaml.v3"

	"github.com/arrowmesh/arrowmesh/go/node"
)

// Symbol names every dynamically linked plugin must export. A shared
// library exports exactly one of these, matching whichever manager
// will load it.
const (
	NodeSymbol      = "ARROWMESH_NODE"
	FileExtSymbol   = "ARROWMESH_FILE_EXT_PLUGIN"
	URLSchemeSymbol = "ARROWMESH_URL_SCHEME_PLUGIN"
)

// FileExtPlugin maps file extensions to node constructors.
type FileExtPlugin interface {
	// Targets lists the file extensions (without a leading dot) this
	// plugin handles.
	Targets() []string

	// Load constructs a node instance for path using the node's
	// acquired endpoints and parsed configuration.
	Load(ctx context.Context, path string, in *node.Inputs, out *node.Outputs, q *node.Queries, qable *node.Queryables, config yaml.Node) (node.Node, error)
}

// URLSchemePlugin maps URL schemes to node constructors.
type URLSchemePlugin interface {
	// Schemes lists the URL schemes (without the trailing "://") this
	// plugin handles.
	Schemes() []string

	// Load constructs a node instance for url using the node's
	// acquired endpoints and parsed configuration.
	Load(ctx context.Context, url string, in *node.Inputs, out *node.Outputs, q *node.Queries, qable *node.Queryables, config yaml.Node) (node.Node, error)
}

// FileExtPluginConstructor is the function type a dynamically linked
// file-extension plugin exports under FileExtSymbol.
type FileExtPluginConstructor func() (FileExtPlugin, error)

// URLSchemePluginConstructor is the function type a dynamically linked
// URL-scheme plugin exports under URLSchemeSymbol.
type URLSchemePluginConstructor func() (URLSchemePlugin, error)

// NodeConstructor is the function type a dynamically linked single-node
// plugin exports under NodeSymbol: the ABI boundary for the simplest
// case, a shared library that is just one node with no extension or
// scheme dispatch of its own.
type NodeConstructor = node.Constructor
