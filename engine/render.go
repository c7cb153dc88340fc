package engine

import (
	"context"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/inlay"
)

// bucket groups one batch of hints by kind. It lives for a single render pass.
type bucket struct {
	types      []inlay.Hint
	parameters []inlay.Hint
	chaining   []inlay.Hint
}

func partition(hints []inlay.Hint) bucket {
	var b bucket

	for _, h := range hints {
		switch h.Kind {
		case inlay.KindType:
			b.types = append(b.types, h)
		case inlay.KindParameter:
			b.parameters = append(b.parameters, h)
		case inlay.KindChaining:
			b.chaining = append(b.chaining, h)
		}
	}

	return b
}

// layer is one paintable hint kind with its display options.
type layer struct {
	enabled   bool
	separator string
	group     string
	hints     []inlay.Hint
}

// layers returns the kinds that may be painted, in drawing order.
// Parameter hints are bucketed but not painted.
func (b bucket) layers(s inlay.Settings) []layer {
	return []layer{
		{s.TypeHints, s.TypeHintsSeparator, inlay.GroupTypeHint, b.types},
		{s.ChainingHints, s.ChainingHintsSeparator, inlay.GroupChainingHint, b.chaining},
	}
}

// Decorations converts hints into the overlays Render would draw for them.
func Decorations(hints []inlay.Hint, s inlay.Settings) []inlay.Decoration {
	var out []inlay.Decoration

	for _, l := range partition(hints).layers(s) {
		if !l.enabled {
			continue
		}

		for _, h := range l.hints {
			out = append(out, inlay.Decoration{
				Line:  h.Anchor.Line,
				Text:  l.separator + h.Label,
				Group: l.group,
			})
		}
	}

	return out
}

// Renderer draws hints onto documents through a Sink.
type Renderer struct {
	sink     Sink
	settings func() inlay.Settings
	logger   *zap.Logger
	metrics  *Metrics

	mu      sync.Mutex
	painted map[protocol.DocumentURI]struct{}
}

// NewRenderer creates a renderer reading display options from settings on every pass.
func NewRenderer(sink Sink, settings func() inlay.Settings, logger *zap.Logger, metrics *Metrics) *Renderer {
	return &Renderer{
		sink:     sink,
		settings: settings,
		logger:   logger,
		metrics:  metrics,
		painted:  make(map[protocol.DocumentURI]struct{}),
	}
}

// Render replaces the overlays on uri with hints.
// Existing overlays are cleared even when hints is empty. A failure drawing one
// overlay is logged and does not stop the rest of the batch.
func (r *Renderer) Render(ctx context.Context, uri protocol.DocumentURI, hints []inlay.Hint) {
	r.Clear(ctx, uri)

	decorations := Decorations(hints, r.settings())
	failures := 0

	for _, d := range decorations {
		err := r.sink.SetVirtualText(ctx, uri, d)
		if err != nil {
			failures++

			r.logger.Warn("Failed to draw inlay hint",
				zap.String("uri", string(uri)),
				zap.Uint32("line", d.Line),
				zap.String("group", d.Group),
				zap.Error(err))
		}
	}

	if len(decorations) > failures {
		r.mu.Lock()
		r.painted[uri] = struct{}{}
		r.mu.Unlock()
	}

	r.metrics.rendered(len(decorations)-failures, failures)
	r.logger.Debug("Rendered inlay hints",
		zap.String("uri", string(uri)),
		zap.Int("hints", len(hints)),
		zap.Int("overlays", len(decorations)-failures))
}

// Clear removes every overlay the engine drew on uri.
func (r *Renderer) Clear(ctx context.Context, uri protocol.DocumentURI) {
	r.mu.Lock()
	delete(r.painted, uri)
	r.mu.Unlock()

	err := r.sink.ClearNamespace(ctx, uri)
	if err != nil {
		r.logger.Warn("Failed to clear inlay hints",
			zap.String("uri", string(uri)),
			zap.Error(err))
	}
}

// ClearAll clears every document that currently carries overlays, plus extra.
func (r *Renderer) ClearAll(ctx context.Context, extra ...protocol.DocumentURI) {
	r.mu.Lock()
	uris := make(map[protocol.DocumentURI]struct{}, len(r.painted)+len(extra))

	for uri := range r.painted {
		uris[uri] = struct{}{}
	}
	r.mu.Unlock()

	for _, uri := range extra {
		if uri != "" {
			uris[uri] = struct{}{}
		}
	}

	for uri := range uris {
		r.Clear(ctx, uri)
	}
}
