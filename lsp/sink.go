package lsp

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/rlch/inlay"
)

// Notifications sent to the editor.
const (
	MethodClearNamespace = "inlay/clearNamespace"
	MethodSetVirtualText = "inlay/setVirtualText"
	MethodLinkHighlight  = "inlay/linkHighlight"
)

// Notifier sends JSON-RPC notifications. jsonrpc2.Conn satisfies it.
type Notifier interface {
	Notify(ctx context.Context, method string, params any) error
}

// ClearNamespaceParams asks the editor to drop every overlay in a namespace.
type ClearNamespaceParams struct {
	URI       protocol.DocumentURI `json:"uri"`
	Namespace string               `json:"namespace"`
}

// SetVirtualTextParams asks the editor to draw text at the end of a line.
type SetVirtualTextParams struct {
	URI            protocol.DocumentURI `json:"uri"`
	Namespace      string               `json:"namespace"`
	Line           uint32               `json:"line"`
	Text           string               `json:"text"`
	HighlightGroup string               `json:"highlightGroup"`
}

// LinkHighlightParams asks the editor to style group like target.
type LinkHighlightParams struct {
	Group  string `json:"group"`
	Target string `json:"target"`
}

// notificationSink draws overlays by notifying the editor.
type notificationSink struct {
	notifier Notifier
}

func (s *notificationSink) ClearNamespace(ctx context.Context, uri protocol.DocumentURI) error {
	return s.notifier.Notify(ctx, MethodClearNamespace, &ClearNamespaceParams{
		URI:       uri,
		Namespace: inlay.Namespace,
	})
}

func (s *notificationSink) SetVirtualText(ctx context.Context, uri protocol.DocumentURI, d inlay.Decoration) error {
	return s.notifier.Notify(ctx, MethodSetVirtualText, &SetVirtualTextParams{
		URI:            uri,
		Namespace:      inlay.Namespace,
		Line:           d.Line,
		Text:           d.Text,
		HighlightGroup: d.Group,
	})
}

func (s *notificationSink) LinkHighlight(ctx context.Context, group, target string) error {
	return s.notifier.Notify(ctx, MethodLinkHighlight, &LinkHighlightParams{
		Group:  group,
		Target: target,
	})
}
