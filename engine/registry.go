package engine

import (
	"sync"

	"go.lsp.dev/protocol"
)

// SourceFile is the engine's state for one tracked document.
type SourceFile struct {
	URI protocol.DocumentURI

	// mu guards pending and serializes completion handling for this document.
	mu      sync.Mutex
	pending *Token
}

// Pending returns the in-flight request token, or nil when none is outstanding.
func (f *SourceFile) Pending() *Token {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.pending
}

// Registry tracks the documents known to the engine.
// Entries are never removed implicitly; see Forget.
type Registry struct {
	mu    sync.RWMutex
	files map[protocol.DocumentURI]*SourceFile
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		files: make(map[protocol.DocumentURI]*SourceFile),
	}
}

// Register returns the state for uri, creating it on first sight.
func (r *Registry) Register(uri protocol.DocumentURI) *SourceFile {
	r.mu.RLock()
	f, ok := r.files[uri]
	r.mu.RUnlock()

	if ok {
		return f
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have won the race between the two locks.
	f, ok = r.files[uri]
	if ok {
		return f
	}

	f = &SourceFile{URI: uri}
	r.files[uri] = f

	return f
}

// Forget removes uri from the registry and returns its state, if tracked.
func (r *Registry) Forget(uri protocol.DocumentURI) (*SourceFile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[uri]
	if ok {
		delete(r.files, uri)
	}

	return f, ok
}

// ForEach calls fn for every tracked document.
// fn runs outside the registry lock and may call Register.
func (r *Registry) ForEach(fn func(*SourceFile)) {
	r.mu.RLock()
	files := make([]*SourceFile, 0, len(r.files))

	for _, f := range r.files {
		files = append(files, f)
	}
	r.mu.RUnlock()

	for _, f := range files {
		fn(f)
	}
}

// Len returns the number of tracked documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.files)
}
