package builtins

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arrowmesh/arrowmesh/go/node"
)

// registry maps a built-in node's name, as it appears in a builtin:/
// URL, to the constructor that builds it.
var registry = map[string]node.Constructor{
	"timer":     NewTimer,
	"printer":   NewPrinter,
	"transport": NewTransport,
}

// Plugin is the URL-scheme plugin handling builtin:/<name> references,
// instantiating one of the closed set of built-in nodes. A
// URLSchemeManagerBuilder does not register it on its own; builtin:/
// URLs resolve only after it is passed to LoadStatic.
type Plugin struct{}

// Schemes reports the single scheme this plugin claims.
func (Plugin) Schemes() []string { return []string{"builtin"} }

// Load parses name out of url (builtin:/<name>) and constructs the
// matching built-in node.
func (Plugin) Load(ctx context.Context, rawURL string, in *node.Inputs, out *node.Outputs, q *node.Queries, qable *node.Queryables, config yaml.Node) (node.Node, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("builtins: %q is not a valid URL: %w", rawURL, err)
	}

	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		name = u.Opaque
	}

	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("builtins: no built-in node named %q", name)
	}
	return ctor(ctx, in, out, q, qable, config)
}
