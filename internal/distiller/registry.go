package distiller

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Registry maps file extensions to language modules. Construct one at
// startup and thread it through the orchestrator; there is no process-wide
// instance.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Module
	byExt   map[string]Module
	inited  map[string]bool
	initErr map[string]error
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Module),
		byExt:   make(map[string]Module),
		inited:  make(map[string]bool),
		initErr: make(map[string]error),
	}
}

// Register adds a module, claiming all of its extensions. Re-registering a
// name replaces the prior module and releases any extensions the new module
// no longer claims.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byName[m.Name()]; ok {
		for _, ext := range prev.Extensions() {
			if r.byExt[normalizeExt(ext)] == prev {
				delete(r.byExt, normalizeExt(ext))
			}
		}
		delete(r.inited, m.Name())
		delete(r.initErr, m.Name())
	}

	r.byName[m.Name()] = m
	for _, ext := range m.Extensions() {
		r.byExt[normalizeExt(ext)] = m
	}
}

// Unregister removes a module by name. Unknown names are a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byName[name]
	if !ok {
		return
	}
	for _, ext := range m.Extensions() {
		if r.byExt[normalizeExt(ext)] == m {
			delete(r.byExt, normalizeExt(ext))
		}
	}
	delete(r.byName, name)
	delete(r.inited, name)
	delete(r.initErr, name)
}

// ModuleForFile returns the module claiming the file's extension, or nil.
// Lookup is case-insensitive. The module is lazily initialized on first use;
// a module whose Init failed is treated as absent.
func (r *Registry) ModuleForFile(path string) Module {
	ext := normalizeExt(filepath.Ext(path))

	r.mu.RLock()
	m, ok := r.byExt[ext]
	inited := ok && r.inited[m.Name()]
	r.mu.RUnlock()

	if !ok {
		return nil
	}
	if inited {
		if r.initFailed(m.Name()) {
			return nil
		}
		return m
	}

	r.mu.Lock()
	if !r.inited[m.Name()] {
		r.initErr[m.Name()] = m.Init()
		r.inited[m.Name()] = true
	}
	err := r.initErr[m.Name()]
	r.mu.Unlock()

	if err != nil {
		return nil
	}
	return m
}

// IsSupported reports whether some registered module claims the file's
// extension, without triggering initialization.
func (r *Registry) IsSupported(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byExt[normalizeExt(filepath.Ext(path))]
	return ok
}

// Extensions returns every extension currently claimed by some module.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}

// LanguageForFile returns the display name of the module claiming the file,
// or "" when unsupported.
func (r *Registry) LanguageForFile(path string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.byExt[normalizeExt(filepath.Ext(path))]; ok {
		return m.Name()
	}
	return ""
}

// InitializeAll eagerly initializes every registered module, returning the
// first error encountered. Modules that fail stay registered but are skipped
// by ModuleForFile.
func (r *Registry) InitializeAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for name, m := range r.byName {
		if r.inited[name] {
			continue
		}
		err := m.Init()
		r.inited[name] = true
		r.initErr[name] = err
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("initializing %s module: %w", name, err)
		}
	}
	return firstErr
}

func (r *Registry) initFailed(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initErr[name] != nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(ext)
}
