package plugin

import (
	"context"
	"fmt"
	"path/filepath"
	goplugin "plugin"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/arrowmesh/arrowmesh/go/node"
)

// runtimeFileExt is a loaded plugin together with the shared-library
// handle it came from, if any. The handle is kept alive for as long as
// any runtimeFileExt referencing it exists: Go's plugin package never
// unloads a shared library once opened, so (unlike the dlopen-based
// loader this is modeled on) there is no drop-order hazard to guard —
// the handle simply outlives the process. It is retained anyway, both
// for API symmetry with the URL-scheme manager and in case a future Go
// runtime adds support for unloading.
type runtimeFileExt struct {
	impl    FileExtPlugin
	library *goplugin.Plugin
}

// FileExtManager dispatches Load by file extension. Construct one with
// a FileExtManagerBuilder.
type FileExtManager struct {
	plugins map[string]*runtimeFileExt
}

// Load constructs a node for path, dispatching on its file extension.
func (m *FileExtManager) Load(ctx context.Context, path string, in *node.Inputs, out *node.Outputs, q *node.Queries, qable *node.Queryables, config yaml.Node) (node.Node, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("plugin: no extension found for path %q", path)
	}

	rt, ok := m.plugins[ext]
	if !ok {
		return nil, fmt.Errorf("plugin: no file-extension plugin registered for %q", ext)
	}

	return rt.impl.Load(ctx, path, in, out, q, qable, config)
}

// FileExtManagerBuilder accumulates file-extension plugins before
// freezing them into a FileExtManager.
type FileExtManagerBuilder struct {
	mu      sync.Mutex
	plugins map[string]*runtimeFileExt
	log     *logrus.Entry
}

// NewFileExtManagerBuilder returns an empty builder.
func NewFileExtManagerBuilder() *FileExtManagerBuilder {
	return &FileExtManagerBuilder{
		plugins: make(map[string]*runtimeFileExt),
		log:     logrus.WithField("component", "plugin.fileext"),
	}
}

// LoadStatic registers a plugin compiled into this binary.
func (b *FileExtManagerBuilder) LoadStatic(impl FileExtPlugin) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rt := &runtimeFileExt{impl: impl}
	for _, ext := range impl.Targets() {
		if _, exists := b.plugins[ext]; exists {
			b.log.WithField("ext", ext).Warn("plugin: duplicate file-extension registration, last one wins")
		}
		b.plugins[ext] = rt
	}
	return nil
}

// LoadDynamic opens a shared library at path and registers the plugin
// it exports under FileExtSymbol. path must have the platform's shared
// library extension (.so, .dylib, or .dll).
func (b *FileExtManagerBuilder) LoadDynamic(path string) error {
	lib, err := goplugin.Open(path)
	if err != nil {
		return fmt.Errorf("plugin: failed to open %q: %w", path, err)
	}

	sym, err := lib.Lookup(FileExtSymbol)
	if err != nil {
		return fmt.Errorf("plugin: symbol %q not found in %q: %w", FileExtSymbol, path, err)
	}

	ctor, ok := sym.(func() (FileExtPlugin, error))
	if !ok {
		if p, ok := sym.(*FileExtPluginConstructor); ok {
			ctor = *p
		} else {
			return fmt.Errorf("plugin: symbol %q in %q has an unexpected type", FileExtSymbol, path)
		}
	}

	impl, err := ctor()
	if err != nil {
		return fmt.Errorf("plugin: constructor in %q failed: %w", path, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	rt := &runtimeFileExt{impl: impl, library: lib}
	for _, ext := range impl.Targets() {
		if _, exists := b.plugins[ext]; exists {
			b.log.WithField("ext", ext).Warn("plugin: duplicate file-extension registration, last one wins")
		}
		b.plugins[ext] = rt
	}
	return nil
}

// Build freezes the builder into a FileExtManager.
func (b *FileExtManagerBuilder) Build() *FileExtManager {
	b.mu.Lock()
	defer b.mu.Unlock()

	frozen := make(map[string]*runtimeFileExt, len(b.plugins))
	for k, v := range b.plugins {
		frozen[k] = v
	}
	return &FileExtManager{plugins: frozen}
}
