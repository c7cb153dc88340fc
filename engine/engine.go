// Package engine keeps the inlay hints drawn in an editor in step with the hints a
// language server computes for its documents.
//
// Every editor event triggers a resync: each tracked document gets a fresh request
// token, superseding any request still in flight for it, and the hints that come
// back are drawn only if their token is still current and their document is the one
// the editor is showing. Requests for different documents run concurrently.
package engine

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/rlch/inlay"
)

// Backend fetches hints for a document. Implementations should return promptly
// once ctx is cancelled, but the engine does not rely on it.
type Backend interface {
	InlayHints(ctx context.Context, uri protocol.DocumentURI) ([]inlay.Hint, error)
}

// Sink draws overlays in the editor. All overlays live in inlay.Namespace.
type Sink interface {
	// ClearNamespace removes every overlay the engine drew on uri.
	ClearNamespace(ctx context.Context, uri protocol.DocumentURI) error

	// SetVirtualText draws one line-anchored overlay on uri.
	SetVirtualText(ctx context.Context, uri protocol.DocumentURI, d inlay.Decoration) error

	// LinkHighlight links a highlight group to another group.
	LinkHighlight(ctx context.Context, group, target string) error
}

// Editor exposes the editor state render decisions depend on.
type Editor interface {
	// ActiveDocument returns the document currently shown, or "" if none.
	ActiveDocument() protocol.DocumentURI

	// InsertMode reports whether the user is typing.
	InsertMode() bool
}

// Workspace lists the documents the host currently knows about.
type Workspace interface {
	Documents() []protocol.DocumentURI
}
