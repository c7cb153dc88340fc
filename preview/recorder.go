// Package preview runs one engine pass over a file and prints the result with
// its inlay hints inline, as an editor would display them.
package preview

import (
	"context"
	"maps"
	"sync"

	"go.lsp.dev/protocol"

	"github.com/rlch/inlay"
)

// Recorder is an engine sink that keeps overlays in memory.
type Recorder struct {
	mu       sync.Mutex
	overlays map[protocol.DocumentURI][]inlay.Decoration
	links    map[string]string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		overlays: make(map[protocol.DocumentURI][]inlay.Decoration),
		links:    make(map[string]string),
	}
}

// ClearNamespace drops every overlay on uri.
func (r *Recorder) ClearNamespace(_ context.Context, uri protocol.DocumentURI) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.overlays, uri)

	return nil
}

// SetVirtualText records one overlay.
func (r *Recorder) SetVirtualText(_ context.Context, uri protocol.DocumentURI, d inlay.Decoration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.overlays[uri] = append(r.overlays[uri], d)

	return nil
}

// LinkHighlight records a highlight link.
func (r *Recorder) LinkHighlight(_ context.Context, group, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.links[group] = target

	return nil
}

// Decorations returns the overlays on uri in the order they were drawn.
func (r *Recorder) Decorations(uri protocol.DocumentURI) []inlay.Decoration {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]inlay.Decoration(nil), r.overlays[uri]...)
}

// Links returns the recorded highlight links.
func (r *Recorder) Links() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return maps.Clone(r.links)
}
