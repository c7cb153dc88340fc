package backend

import (
	"encoding/json"
	"strings"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/rlch/inlay"
)

// go.lsp.dev/protocol v0.12.0 predates LSP 3.17, so the inlay hint messages are
// declared here.

const (
	methodLegacyInlayHints = "rust-analyzer/inlayHints"
	methodInlayHint        = "textDocument/inlayHint"
	methodCancelRequest    = "$/cancelRequest"
)

// JSON-RPC error codes the server uses for requests worth retrying.
const (
	codeServerCancelled = -32802
	codeContentModified = -32801
)

// cancelParams holds a pointer since jsonrpc2.ID marshals through *ID.
type cancelParams struct {
	ID *jsonrpc2.ID `json:"id"`
}

// legacyParams is the rust-analyzer/inlayHints request.
type legacyParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
}

// legacyHint is one element of the rust-analyzer/inlayHints response.
type legacyHint struct {
	Range protocol.Range `json:"range"`
	Kind  string         `json:"kind"`
	Label string         `json:"label"`
}

func (h legacyHint) toHint() inlay.Hint {
	return inlay.Hint{
		Kind:   inlay.Kind(h.Kind),
		Label:  h.Label,
		Anchor: h.Range.End,
	}
}

// inlayHintParams is the LSP 3.17 textDocument/inlayHint request.
type inlayHintParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Range        protocol.Range                  `json:"range"`
}

// LSP 3.17 InlayHintKind values.
const (
	inlayHintKindType      = 1
	inlayHintKindParameter = 2
)

// standardHint is one element of the textDocument/inlayHint response.
type standardHint struct {
	Position protocol.Position `json:"position"`
	Label    hintLabel         `json:"label"`
	Kind     int               `json:"kind,omitempty"`
}

func (h standardHint) toHint() inlay.Hint {
	var kind inlay.Kind

	switch h.Kind {
	case inlayHintKindType:
		kind = inlay.KindType
	case inlayHintKindParameter:
		kind = inlay.KindParameter
	default:
		// Kind-less hints have no renderable category.
		kind = inlay.Kind("")
	}

	return inlay.Hint{
		Kind:   kind,
		Label:  string(h.Label),
		Anchor: h.Position,
	}
}

// hintLabel is either a plain string or a list of label parts.
type hintLabel string

type labelPart struct {
	Value string `json:"value"`
}

// UnmarshalJSON accepts both label forms, joining parts.
func (l *hintLabel) UnmarshalJSON(data []byte) error {
	var s string
	err := json.Unmarshal(data, &s)
	if err == nil {
		*l = hintLabel(s)

		return nil
	}

	var parts []labelPart
	err = json.Unmarshal(data, &parts)
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Value)
	}

	*l = hintLabel(b.String())

	return nil
}
