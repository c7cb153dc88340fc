// Package backend talks to the language server that computes inlay hints.
//
// A Client forwards text synchronization to the server through a
// protocol.Server dispatcher and asks it for hints using either the legacy
// rust-analyzer/inlayHints request or the LSP 3.17 textDocument/inlayHint
// request.
package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/inlay"
)

// ErrBackendClosed is returned once the connection to the server is gone.
var ErrBackendClosed = errors.New("backend connection closed")

// Client is a connection to a language server.
type Client struct {
	conn   jsonrpc2.Conn
	server protocol.Server
	logger *zap.Logger

	protocol        inlay.Protocol
	maxTries        uint
	initialInterval time.Duration
	name            string
	version         string

	// Document ends, needed for the textDocument/inlayHint range.
	mu   sync.Mutex
	ends map[protocol.DocumentURI]protocol.Position

	// Set when the client owns the server process.
	proc *process
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithProtocol selects the hint request: inlay.ProtocolLegacy or
// inlay.ProtocolStandard.
func WithProtocol(p inlay.Protocol) Option {
	return func(c *Client) {
		c.protocol = p
	}
}

// WithRetry sets how many times a request that the server rejected as
// ContentModified or ServerCancelled is attempted, and the first delay.
func WithRetry(maxTries uint, initialInterval time.Duration) Option {
	return func(c *Client) {
		if maxTries > 0 {
			c.maxTries = maxTries
		}

		if initialInterval > 0 {
			c.initialInterval = initialInterval
		}
	}
}

// WithClientInfo sets the name and version sent in initialize.
func WithClientInfo(name, version string) Option {
	return func(c *Client) {
		c.name = name
		c.version = version
	}
}

// WithServerConfig applies the server section of the configuration file.
func WithServerConfig(cfg inlay.ServerConfig) Option {
	return func(c *Client) {
		if cfg.Protocol != "" {
			WithProtocol(cfg.Protocol)(c)
		}

		WithRetry(cfg.MaxRetries, cfg.RetryInitialInterval)(c)
	}
}

// NewClient wraps a connection whose handler is already running.
func NewClient(conn jsonrpc2.Conn, opts ...Option) *Client {
	c := &Client{
		conn:            conn,
		logger:          zap.NewNop(),
		protocol:        inlay.ProtocolLegacy,
		maxTries:        3,
		initialInterval: 100 * time.Millisecond,
		name:            "inlayd",
		ends:            make(map[protocol.DocumentURI]protocol.Position),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.server = protocol.ServerDispatcher(conn, c.logger)

	return c
}

// Initialize performs the initialize handshake.
func (c *Client) Initialize(ctx context.Context, root protocol.DocumentURI) (*protocol.InitializeResult, error) {
	err := c.alive()
	if err != nil {
		return nil, err
	}

	params := &protocol.InitializeParams{
		ProcessID: int32(os.Getpid()), //nolint:gosec // G115: pids fit in int32
		RootURI:   root,
		ClientInfo: &protocol.ClientInfo{
			Name:    c.name,
			Version: c.version,
		},
	}

	result, err := c.server.Initialize(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	err = c.server.Initialized(ctx, &protocol.InitializedParams{})
	if err != nil {
		return nil, fmt.Errorf("initialized: %w", err)
	}

	c.logger.Info("Backend initialized", zap.String("root", string(root)))

	return result, nil
}

// DidOpen forwards a didOpen notification.
func (c *Client) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	err := c.alive()
	if err != nil {
		return err
	}

	c.setEnd(params.TextDocument.URI, params.TextDocument.Text)

	return c.server.DidOpen(ctx, params)
}

// DidChange forwards a didChange notification. Only full-content changes are
// tracked for the hint range.
func (c *Client) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	err := c.alive()
	if err != nil {
		return err
	}

	n := len(params.ContentChanges)
	if n > 0 {
		c.setEnd(params.TextDocument.URI, params.ContentChanges[n-1].Text)
	}

	return c.server.DidChange(ctx, params)
}

// DidClose forwards a didClose notification.
func (c *Client) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	err := c.alive()
	if err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.ends, params.TextDocument.URI)
	c.mu.Unlock()

	return c.server.DidClose(ctx, params)
}

// InlayHints asks the server for every hint in uri. Requests the server
// abandons because the document moved on are retried with exponential
// backoff; anything else fails immediately.
func (c *Client) InlayHints(ctx context.Context, uri protocol.DocumentURI) ([]inlay.Hint, error) {
	err := c.alive()
	if err != nil {
		return nil, err
	}

	op := func() ([]inlay.Hint, error) {
		hints, err := c.fetch(ctx, uri)
		if err == nil {
			return hints, nil
		}

		if retryable(err) {
			c.logger.Debug("Retrying inlay hints", zap.String("uri", string(uri)), zap.Error(err))

			return nil, err
		}

		return nil, backoff.Permanent(err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.maxTries),
	)
}

func (c *Client) fetch(ctx context.Context, uri protocol.DocumentURI) ([]inlay.Hint, error) {
	doc := protocol.TextDocumentIdentifier{URI: uri}

	if c.protocol == inlay.ProtocolStandard {
		var result []standardHint

		params := &inlayHintParams{
			TextDocument: doc,
			Range:        protocol.Range{End: c.end(uri)},
		}
		err := c.call(ctx, methodInlayHint, params, &result)
		if err != nil {
			return nil, err
		}

		hints := make([]inlay.Hint, 0, len(result))
		for _, h := range result {
			hints = append(hints, h.toHint())
		}

		return hints, nil
	}

	var result []legacyHint
	err := c.call(ctx, methodLegacyInlayHints, &legacyParams{TextDocument: doc}, &result)
	if err != nil {
		return nil, err
	}

	hints := make([]inlay.Hint, 0, len(result))
	for _, h := range result {
		hints = append(hints, h.toHint())
	}

	return hints, nil
}

// call issues a request and sends $/cancelRequest if ctx ends first.
func (c *Client) call(ctx context.Context, method string, params, result any) error {
	id, err := c.conn.Call(ctx, method, params, result)
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		nctx := context.WithoutCancel(ctx)
		nerr := c.conn.Notify(nctx, methodCancelRequest, &cancelParams{ID: &id})
		if nerr != nil {
			c.logger.Debug("Failed to cancel request", zap.String("method", method), zap.Error(nerr))
		}

		return ctx.Err()
	}

	select {
	case <-c.conn.Done():
		return ErrBackendClosed
	default:
	}

	return fmt.Errorf("%s: %w", method, err)
}

// Close shuts the server down and releases the connection.
func (c *Client) Close(ctx context.Context) error {
	if c.alive() != nil {
		return c.waitProcess()
	}

	var errs []error

	err := c.server.Shutdown(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("shutdown: %w", err))
	}

	err = c.server.Exit(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("exit: %w", err))
	}

	err = c.conn.Close()
	if err != nil {
		errs = append(errs, err)
	}

	err = c.waitProcess()
	if err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.conn.Done()
}

func (c *Client) alive() error {
	select {
	case <-c.conn.Done():
		return ErrBackendClosed
	default:
		return nil
	}
}

func (c *Client) waitProcess() error {
	if c.proc == nil {
		return nil
	}

	return c.proc.wait()
}

func (c *Client) setEnd(uri protocol.DocumentURI, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ends[uri] = endOf(text)
}

func (c *Client) end(uri protocol.DocumentURI) protocol.Position {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ends[uri]
}

func retryable(err error) bool {
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) {
		return false
	}

	return rpcErr.Code == codeContentModified || rpcErr.Code == codeServerCancelled
}
