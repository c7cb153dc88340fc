package lsp

import (
	"sync"

	"go.lsp.dev/protocol"
)

// editorState mirrors what the editor last reported about focus and mode.
type editorState struct {
	mu     sync.RWMutex
	active protocol.DocumentURI
	insert bool
}

// ActiveDocument implements engine.Editor.
func (e *editorState) ActiveDocument() protocol.DocumentURI {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.active
}

// InsertMode implements engine.Editor.
func (e *editorState) InsertMode() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.insert
}

func (e *editorState) focus(uri protocol.DocumentURI) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.active = uri
}

// blur clears the active document if it is uri.
func (e *editorState) blur(uri protocol.DocumentURI) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == uri {
		e.active = ""
	}
}

func (e *editorState) setInsert(insert bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.insert = insert
}
