package engine

import (
	"go.uber.org/zap"

	"github.com/rlch/inlay"
)

// fetch issues a request for f under a fresh token. Any failure, cancellation
// included, yields nil hints. The returned token is nil if the session is closed.
func (s *session) fetch(f *SourceFile) ([]inlay.Hint, *Token) {
	tok := s.coord.Supersede(s.ctx, f)
	if tok == nil {
		return nil, nil
	}

	s.metrics.requestStarted()
	defer s.metrics.requestDone()

	hints, err := s.backend.InlayHints(tok.Context(), f.URI)
	if err != nil {
		if tok.Context().Err() != nil {
			s.logger.Debug("Inlay hint request cancelled",
				zap.String("uri", string(f.URI)),
				zap.Uint64("generation", tok.Generation()))

			return nil, tok
		}

		s.metrics.fetchFailed()
		s.logger.Debug("Inlay hint request failed",
			zap.String("uri", string(f.URI)),
			zap.Uint64("generation", tok.Generation()),
			zap.Error(err))

		return nil, tok
	}

	return hints, tok
}
