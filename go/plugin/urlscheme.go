package plugin

import (
	"context"
	"fmt"
	"net/url"
	goplugin "plugin"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/arrowmesh/arrowmesh/go/node"
)

type runtimeURLScheme struct {
	impl    URLSchemePlugin
	library *goplugin.Plugin
}

// URLSchemeManager dispatches Load by URL scheme. The "file" scheme is
// always handled by delegating to an embedded FileExtManager, so
// file:// references resolve the same way whether they arrive through
// this manager or directly.
type URLSchemeManager struct {
	fileExt *FileExtManager
	plugins map[string]*runtimeURLScheme
}

// Load constructs a node for url, dispatching on its scheme.
func (m *URLSchemeManager) Load(ctx context.Context, rawURL string, in *node.Inputs, out *node.Outputs, q *node.Queries, qable *node.Queryables, config yaml.Node) (node.Node, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return nil, fmt.Errorf("plugin: %q is not a scheme-qualified URL", rawURL)
	}

	if u.Scheme == "file" {
		return m.fileExt.Load(ctx, u.Path, in, out, q, qable, config)
	}

	rt, ok := m.plugins[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("plugin: no URL-scheme plugin registered for %q", u.Scheme)
	}
	return rt.impl.Load(ctx, rawURL, in, out, q, qable, config)
}

// URLSchemeManagerBuilder accumulates URL-scheme plugins before
// freezing them into a URLSchemeManager.
type URLSchemeManagerBuilder struct {
	mu      sync.Mutex
	fileExt *FileExtManager
	plugins map[string]*runtimeURLScheme
	log     *logrus.Entry
}

// NewURLSchemeManagerBuilder returns an empty builder delegating "file"
// URLs to fileExt.
func NewURLSchemeManagerBuilder(fileExt *FileExtManager) *URLSchemeManagerBuilder {
	return &URLSchemeManagerBuilder{
		fileExt: fileExt,
		plugins: make(map[string]*runtimeURLScheme),
		log:     logrus.WithField("component", "plugin.urlscheme"),
	}
}

// LoadStatic registers a plugin compiled into this binary.
func (b *URLSchemeManagerBuilder) LoadStatic(impl URLSchemePlugin) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rt := &runtimeURLScheme{impl: impl}
	for _, scheme := range impl.Schemes() {
		if scheme == "file" {
			return fmt.Errorf("plugin: the \"file\" scheme is reserved for the file-extension manager")
		}
		if _, exists := b.plugins[scheme]; exists {
			b.log.WithField("scheme", scheme).Warn("plugin: duplicate URL-scheme registration, last one wins")
		}
		b.plugins[scheme] = rt
	}
	return nil
}

// LoadDynamic opens a shared library at path and registers the plugin
// it exports under URLSchemeSymbol.
func (b *URLSchemeManagerBuilder) LoadDynamic(path string) error {
	lib, err := goplugin.Open(path)
	if err != nil {
		return fmt.Errorf("plugin: failed to open %q: %w", path, err)
	}

	sym, err := lib.Lookup(URLSchemeSymbol)
	if err != nil {
		return fmt.Errorf("plugin: symbol %q not found in %q: %w", URLSchemeSymbol, path, err)
	}

	ctor, ok := sym.(func() (URLSchemePlugin, error))
	if !ok {
		if p, ok := sym.(*URLSchemePluginConstructor); ok {
			ctor = *p
		} else {
			return fmt.Errorf("plugin: symbol %q in %q has an unexpected type", URLSchemeSymbol, path)
		}
	}

	impl, err := ctor()
	if err != nil {
		return fmt.Errorf("plugin: constructor in %q failed: %w", path, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	rt := &runtimeURLScheme{impl: impl, library: lib}
	for _, scheme := range impl.Schemes() {
		if _, exists := b.plugins[scheme]; exists {
			b.log.WithField("scheme", scheme).Warn("plugin: duplicate URL-scheme registration, last one wins")
		}
		b.plugins[scheme] = rt
	}
	return nil
}

// Build freezes the builder into a URLSchemeManager.
func (b *URLSchemeManagerBuilder) Build() *URLSchemeManager {
	b.mu.Lock()
	defer b.mu.Unlock()

	frozen := make(map[string]*runtimeURLScheme, len(b.plugins))
	for k, v := range b.plugins {
		frozen[k] = v
	}
	return &URLSchemeManager{fileExt: b.fileExt, plugins: frozen}
}
