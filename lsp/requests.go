package lsp

import (
	"context"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/inlay"
)

// Requests and notifications the editor sends besides standard LSP. The
// protocol package routes them through Server.Request; they must carry a
// params object, even an empty one.
const (
	MethodDidFocus    = "inlay/didFocus"
	MethodInsertEnter = "inlay/insertEnter"
	MethodInsertLeave = "inlay/insertLeave"
	MethodToggle      = "inlay/toggle"
	MethodStatus      = "inlay/status"
)

// DidFocusParams reports the document now shown in the editor.
type DidFocusParams struct {
	URI protocol.DocumentURI `json:"uri"`
}

// ToggleResult is the reply to inlay/toggle.
type ToggleResult struct {
	Enabled bool `json:"enabled"`
}

// StatusResult is the reply to inlay/status.
type StatusResult struct {
	Initialized bool                 `json:"initialized"`
	Enabled     bool                 `json:"enabled"`
	Documents   int                  `json:"documents"`
	Pending     int                  `json:"pending"`
	Active      protocol.DocumentURI `json:"active,omitempty"`
	Settings    inlay.Settings       `json:"settings"`
}

// Request handles the inlay/* methods.
func (s *Server) Request(ctx context.Context, method string, params any) (any, error) {
	s.mu.RLock()
	shutdown := s.shutdown
	s.mu.RUnlock()

	if shutdown {
		return nil, jsonrpc2.NewError(jsonrpc2.InvalidRequest, "server is shutting down")
	}

	switch method {
	case MethodDidFocus:
		var p DidFocusParams
		err := decodeParams(params, &p)
		if err != nil {
			return nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
		}

		s.didFocus(p.URI)

		return nil, nil //nolint:nilnil // notification

	case MethodInsertEnter:
		s.editor.setInsert(true)

		return nil, nil //nolint:nilnil // notification

	case MethodInsertLeave:
		s.editor.setInsert(false)
		s.controller.InsertLeave()

		return nil, nil //nolint:nilnil // notification

	case MethodToggle:
		enabled := s.controller.Toggle(ctx)

		state := "disabled"
		if enabled {
			state = "enabled"
		}

		s.logMessage(ctx, "inlay hints "+state)

		return &ToggleResult{Enabled: enabled}, nil

	case MethodStatus:
		return s.status(), nil
	}

	s.logger.Debug("Unknown request", zap.String("method", method))

	return nil, jsonrpc2.NewError(jsonrpc2.MethodNotFound, "method not found: "+method)
}

func (s *Server) didFocus(uri protocol.DocumentURI) {
	s.logger.Debug("DidFocus", zap.String("uri", string(uri)))
	s.editor.focus(uri)

	if !s.tracks(uri) {
		return
	}

	s.controller.DidFocus(uri)
}

func (s *Server) status() *StatusResult {
	s.mu.RLock()
	initialized := s.initialized
	s.mu.RUnlock()

	return &StatusResult{
		Initialized: initialized,
		Enabled:     s.controller.Enabled(),
		Documents:   s.controller.Documents(),
		Pending:     s.controller.Pending(),
		Active:      s.editor.ActiveDocument(),
		Settings:    s.controller.Settings(),
	}
}

func (s *Server) logMessage(ctx context.Context, message string) {
	err := s.client.LogMessage(ctx, &protocol.LogMessageParams{
		Type:    protocol.MessageTypeInfo,
		Message: message,
	})
	if err != nil {
		s.logger.Debug("Failed to log message", zap.String("message", message), zap.Error(err))
	}
}
