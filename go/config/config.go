// Package config wraps the opaque per-node configuration document each
// plugin receives at load time. The document is free-form YAML, decoded
// lazily into whatever shape the target node expects.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Tree is an opaque hierarchical configuration value. A node constructor
// decodes it into its own config struct via Decode, the same way the
// original's serde_yml::Value is consumed per node.
type Tree struct {
	node yaml.Node
}

// New wraps a parsed yaml.Node as a Tree.
func New(node yaml.Node) Tree {
	return Tree{node: node}
}

// Parse decodes raw YAML bytes into a Tree.
func Parse(raw []byte) (Tree, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return Tree{}, fmt.Errorf("config: failed to parse document: %w", err)
	}
	// A document node wraps the real root as its sole child; unwrap it so
	// Decode sees the same shape whether the Tree came from Parse or from
	// a nested mapping value.
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = *node.Content[0]
	}
	return Tree{node: node}, nil
}

// Decode unmarshals the tree into v, following yaml.v3's usual struct tag
// and type rules.
func (t Tree) Decode(v any) error {
	if t.node.IsZero() {
		return nil
	}
	if err := t.node.Decode(v); err != nil {
		return fmt.Errorf("config: failed to decode into %T: %w", v, err)
	}
	return nil
}

// Raw exposes the underlying yaml.Node, for callers (such as the plugin
// package) that pass configuration through unopened.
func (t Tree) Raw() yaml.Node { return t.node }

// IsZero reports whether the tree carries no configuration at all.
func (t Tree) IsZero() bool { return t.node.IsZero() }
