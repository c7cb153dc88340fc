// Package inlay synchronizes inlay hints computed by a language server with the
// documents open in an editor, drawing them as virtual-text overlays.
package inlay

import "go.lsp.dev/protocol"

// Kind classifies an inlay hint.
type Kind string

// Hint kinds as reported by the language server.
const (
	KindType      Kind = "TypeHint"
	KindParameter Kind = "ParameterHint"
	KindChaining  Kind = "ChainingHint"
)

// Known reports whether k is one of the recognized hint kinds.
func (k Kind) Known() bool {
	switch k {
	case KindType, KindParameter, KindChaining:
		return true
	default:
		return false
	}
}

// Hint is a single annotation produced by the language server.
// Anchor is the end of the source range the hint describes; only its line is used
// when placing the overlay.
type Hint struct {
	Kind   Kind
	Label  string
	Anchor protocol.Position
}

// Highlight groups used for drawn overlays.
const (
	GroupTypeHint     = "InlayTypeHint"
	GroupChainingHint = "InlayChainingHint"

	// GroupHint is the generic hint style both groups are linked to.
	GroupHint = "InlayHint"
)

// Namespace is the rendering bucket all overlays drawn by the engine belong to.
const Namespace = "inlay-hints"

// Decoration is one line-anchored overlay.
type Decoration struct {
	Line  uint32
	Text  string
	Group string
}
