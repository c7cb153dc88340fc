package engine

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// session is one constructed engine: a registry plus attached listeners.
// It lives from Controller.Start to Controller.Stop and is never restarted.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc

	registry *Registry
	coord    *Coordinator
	renderer *Renderer
	backend  Backend
	editor   Editor
	logger   *zap.Logger
	metrics  *Metrics

	inflight *flights
}

// resync refreshes every tracked document without waiting for the results.
func (s *session) resync() {
	s.registry.ForEach(func(f *SourceFile) {
		s.inflight.add()

		go s.refresh(f)
	})
}

// refresh fetches hints for f and draws them if the result is still wanted.
func (s *session) refresh(f *SourceFile) {
	defer s.inflight.done()

	hints, tok := s.fetch(f)
	if tok == nil {
		return
	}

	current := s.coord.Complete(f, tok, func() {
		if s.editor.ActiveDocument() != f.URI {
			s.metrics.inactiveResult()

			return
		}

		s.renderer.Render(s.ctx, f.URI, hints)
	})
	if !current {
		s.metrics.staleResult()
		s.logger.Debug("Discarding superseded inlay hints",
			zap.String("uri", string(f.URI)),
			zap.Uint64("generation", tok.Generation()))
	}
}

func (s *session) register(uri protocol.DocumentURI) {
	s.registry.Register(uri)
}

// forget drops uri from the registry and cancels its request.
func (s *session) forget(uri protocol.DocumentURI) {
	f, ok := s.registry.Forget(uri)
	if !ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending != nil {
		f.pending.cancel()
		f.pending = nil
	}
}

// close cancels every request, refuses new ones and clears all overlays.
func (s *session) close(ctx context.Context) {
	s.coord.Close()
	s.coord.CancelAll(s.registry)
	s.cancel()
	s.renderer.ClearAll(ctx, s.editor.ActiveDocument())
}

// pending counts documents with a request in flight.
func (s *session) pending() int {
	n := 0

	s.registry.ForEach(func(f *SourceFile) {
		if f.Pending() != nil {
			n++
		}
	})

	return n
}
