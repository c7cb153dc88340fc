// Package lsp implements the editor-facing side of inlayd: a Language Server
// Protocol server that mirrors the editor's documents into a backend language
// server and draws the backend's inlay hints back into the editor.
package lsp

import (
	"context"
	"slices"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/inlay"
	"github.com/rlch/inlay/engine"
)

// Backend is the language server that computes hints.
type Backend interface {
	engine.Backend

	Initialize(ctx context.Context, root protocol.DocumentURI) (*protocol.InitializeResult, error)
	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error
	Close(ctx context.Context) error
}

// Server implements the LSP Server interface for inlayd.
type Server struct {
	client  protocol.Client
	logger  *zap.Logger
	backend Backend
	cfg     *inlay.Config
	version string

	// Document state
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]struct{}

	editor     *editorState
	controller *engine.Controller

	// Server state
	initialized bool
	shutdown    bool
	exited      chan struct{}
	exitOnce    sync.Once
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	metrics *engine.Metrics
	version string
}

// WithMetrics records engine metrics.
func WithMetrics(m *engine.Metrics) Option {
	return func(o *serverOptions) {
		o.metrics = m
	}
}

// WithVersion sets the version reported in initialize.
func WithVersion(v string) Option {
	return func(o *serverOptions) {
		o.version = v
	}
}

// NewServer creates a new LSP server. Overlays are drawn by sending
// notifications through notifier, usually the editor connection itself.
func NewServer(
	client protocol.Client,
	notifier Notifier,
	backend Backend,
	cfg *inlay.Config,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	if cfg == nil {
		cfg = inlay.DefaultConfig()
	}

	s := &Server{
		client:    client,
		logger:    logger,
		backend:   backend,
		cfg:       cfg,
		version:   o.version,
		documents: make(map[protocol.DocumentURI]struct{}),
		editor:    &editorState{},
		exited:    make(chan struct{}),
	}

	s.controller = engine.NewController(backend, &notificationSink{notifier: notifier}, s.editor, s,
		engine.WithLogger(logger.Named("engine")),
		engine.WithMetrics(o.metrics),
		engine.WithSettings(cfg.InlayHints),
		engine.WithPruneClosed(cfg.PruneClosed),
	)

	return s
}

// Controller returns the engine controller driven by this server.
func (s *Server) Controller() *engine.Controller {
	return s.controller
}

// Initialize handles the initialize request.
func (s *Server) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize", zap.String("root", URIToPath(params.RootURI)))

	_, err := s.backend.Initialize(ctx, params.RootURI)
	if err != nil {
		s.logger.Error("Failed to initialize backend", zap.Error(err))
		s.showError(ctx, "inlayd: language server failed to start: "+err.Error())

		return nil, err
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "inlayd",
			Version: s.version,
		},
	}, nil
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(ctx context.Context, _ *protocol.InitializedParams) error {
	if s.ignoredAfterShutdown(protocol.MethodInitialized) {
		return nil
	}

	s.logger.Info("Initialized")

	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	s.controller.Activate(ctx)

	return nil
}

// Shutdown handles the shutdown request. The engine is stopped and the backend
// shut down.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutdown")

	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()

	s.controller.Stop(ctx)

	err := s.backend.Close(ctx)
	if err != nil {
		s.logger.Warn("Backend did not shut down cleanly", zap.Error(err))
	}

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	s.exitOnce.Do(func() { close(s.exited) })

	return nil
}

// ShuttingDown reports whether the shutdown request has been received.
func (s *Server) ShuttingDown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.shutdown
}

// ignoredAfterShutdown reports whether a notification arrived after shutdown,
// when only exit is valid. The engine stays stopped and the backend closed.
func (s *Server) ignoredAfterShutdown(method string) bool {
	if !s.ShuttingDown() {
		return false
	}

	s.logger.Debug("Ignoring notification after shutdown", zap.String("method", method))

	return true
}

// Done is closed once the exit notification arrives.
func (s *Server) Done() <-chan struct{} {
	return s.exited
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	if s.ignoredAfterShutdown(protocol.MethodTextDocumentDidOpen) {
		return nil
	}

	uri := params.TextDocument.URI
	languageID := string(params.TextDocument.LanguageID)

	if !s.cfg.Tracks(languageID) {
		s.logger.Debug("Ignoring untracked document",
			zap.String("uri", string(uri)),
			zap.String("language", languageID))

		return nil
	}

	s.logger.Info("DidOpen", zap.String("uri", string(uri)))

	s.mu.Lock()
	s.documents[uri] = struct{}{}
	s.mu.Unlock()

	err := s.backend.DidOpen(ctx, params)
	if err != nil {
		s.logger.Error("Failed to forward didOpen", zap.String("uri", string(uri)), zap.Error(err))
	}

	// A freshly opened document is the one on screen.
	s.editor.focus(uri)
	s.controller.DidOpen(uri)

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if s.ignoredAfterShutdown(protocol.MethodTextDocumentDidChange) {
		return nil
	}

	uri := params.TextDocument.URI

	if !s.tracks(uri) {
		s.logger.Debug("DidChange for untracked document", zap.String("uri", string(uri)))

		return nil
	}

	s.logger.Debug("DidChange",
		zap.String("uri", string(uri)),
		zap.Int32("version", params.TextDocument.Version))

	err := s.backend.DidChange(ctx, params)
	if err != nil {
		s.logger.Error("Failed to forward didChange", zap.String("uri", string(uri)), zap.Error(err))
	}

	s.controller.DidChange(uri)

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	if s.ignoredAfterShutdown(protocol.MethodTextDocumentDidClose) {
		return nil
	}

	uri := params.TextDocument.URI

	s.mu.Lock()
	_, ok := s.documents[uri]
	delete(s.documents, uri)
	s.mu.Unlock()

	if !ok {
		return nil
	}

	s.logger.Info("DidClose", zap.String("uri", string(uri)))

	err := s.backend.DidClose(ctx, params)
	if err != nil {
		s.logger.Error("Failed to forward didClose", zap.String("uri", string(uri)), zap.Error(err))
	}

	s.editor.blur(uri)
	s.controller.DidClose(uri)

	return nil
}

// DidSave handles textDocument/didSave notifications.
func (s *Server) DidSave(_ context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Debug("DidSave", zap.String("uri", string(params.TextDocument.URI)))

	return nil
}

// DidChangeConfiguration handles workspace/didChangeConfiguration. Only the
// inlayHints section is read; fields it omits keep their current value.
func (s *Server) DidChangeConfiguration(ctx context.Context, params *protocol.DidChangeConfigurationParams) error {
	if s.ignoredAfterShutdown(protocol.MethodWorkspaceDidChangeConfiguration) {
		return nil
	}

	patch, err := parseSettings(params.Settings)
	if err != nil {
		s.logger.Warn("Ignoring malformed configuration", zap.Error(err))

		return nil
	}

	if patch == nil {
		return nil
	}

	settings := patch.apply(s.controller.Settings())
	s.logger.Info("Configuration changed",
		zap.Bool("typeHints", settings.TypeHints),
		zap.Bool("chainingHints", settings.ChainingHints),
		zap.Bool("refreshOnInsertMode", settings.RefreshOnInsertMode))

	s.controller.ApplySettings(ctx, settings)

	return nil
}

// Documents implements engine.Workspace: the tracked documents currently open.
func (s *Server) Documents() []protocol.DocumentURI {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]protocol.DocumentURI, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}

	slices.Sort(uris)

	return uris
}

// tracks reports whether uri is an open document of a tracked language.
func (s *Server) tracks(uri protocol.DocumentURI) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.documents[uri]

	return ok
}

func (s *Server) showError(ctx context.Context, message string) {
	err := s.client.ShowMessage(ctx, &protocol.ShowMessageParams{
		Type:    protocol.MessageTypeError,
		Message: message,
	})
	if err != nil {
		s.logger.Debug("Failed to show message", zap.Error(err))
	}
}
