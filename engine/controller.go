package engine

import (
	"context"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/inlay"
)

// Controller is the global on/off switch of the engine.
//
// While enabled it owns a session that reacts to editor events; Stop tears the
// session down and events are ignored until Start constructs a new one.
type Controller struct {
	backend   Backend
	sink      Sink
	editor    Editor
	workspace Workspace

	logger      *zap.Logger
	metrics     *Metrics
	pruneClosed bool

	mu       sync.Mutex
	settings inlay.Settings
	session  *session
	linked   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithMetrics records engine activity into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithSettings sets the initial display settings.
func WithSettings(s inlay.Settings) Option {
	return func(c *Controller) {
		c.settings = s
	}
}

// WithPruneClosed drops registry entries when their document closes.
func WithPruneClosed(enabled bool) Option {
	return func(c *Controller) {
		c.pruneClosed = enabled
	}
}

// NewController creates a stopped controller. Call Activate or Start to enable it.
func NewController(backend Backend, sink Sink, editor Editor, workspace Workspace, opts ...Option) *Controller {
	c := &Controller{
		backend:   backend,
		sink:      sink,
		editor:    editor,
		workspace: workspace,
		logger:    zap.NewNop(),
		settings:  inlay.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Activate starts the engine unless the settings disable every hint kind.
func (c *Controller) Activate(ctx context.Context) {
	if !c.Settings().Enabled() {
		c.logger.Info("Inlay hints disabled by configuration")

		return
	}

	c.Start(ctx)
}

// Start enables the engine and resyncs every known document.
// It is a no-op when already enabled.
func (c *Controller) Start(ctx context.Context) {
	docs := c.workspace.Documents()

	c.mu.Lock()

	if c.session != nil {
		c.mu.Unlock()

		return
	}

	link := !c.linked
	c.linked = true

	// The session outlives the request that started it.
	sctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &session{
		ctx:      sctx,
		cancel:   cancel,
		registry: NewRegistry(),
		coord:    NewCoordinator(c.metrics),
		renderer: NewRenderer(c.sink, c.Settings, c.logger, c.metrics),
		backend:  c.backend,
		editor:   c.editor,
		logger:   c.logger,
		metrics:  c.metrics,
		inflight: newFlights(),
	}

	for _, uri := range docs {
		s.register(uri)
	}

	c.session = s
	c.mu.Unlock()

	if link {
		c.linkHighlights(ctx)
	}

	c.logger.Info("Inlay hints enabled", zap.Int("documents", s.registry.Len()))
	s.resync()
}

// Stop cancels every pending request, detaches from editor events and clears
// all overlays. It is a no-op when already disabled.
func (c *Controller) Stop(ctx context.Context) {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s == nil {
		return
	}

	s.close(ctx)
	c.logger.Info("Inlay hints disabled")
}

// Toggle flips the engine state and reports whether it is now enabled.
func (c *Controller) Toggle(ctx context.Context) bool {
	if c.Enabled() {
		c.Stop(ctx)

		return false
	}

	c.Start(ctx)

	return true
}

// Enabled reports whether the engine is running.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session != nil
}

// Settings returns the current display settings.
func (c *Controller) Settings() inlay.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.settings
}

// ApplySettings replaces the display settings. Disabling every hint kind stops
// the engine; enabling one starts it. A running engine resyncs so the new
// options take effect.
func (c *Controller) ApplySettings(ctx context.Context, settings inlay.Settings) {
	c.mu.Lock()
	c.settings = settings
	s := c.session
	c.mu.Unlock()

	switch {
	case !settings.Enabled():
		c.Stop(ctx)
	case s == nil:
		c.Start(ctx)
	default:
		s.resync()
	}
}

func (c *Controller) current() *session {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session
}

// DidOpen tracks uri and resyncs.
func (c *Controller) DidOpen(uri protocol.DocumentURI) {
	s := c.current()
	if s == nil {
		return
	}

	s.register(uri)
	s.resync()
}

// DidChange resyncs after an edit to uri. While the user is typing the resync
// is deferred to InsertLeave unless RefreshOnInsertMode is set.
func (c *Controller) DidChange(uri protocol.DocumentURI) {
	s := c.current()
	if s == nil {
		return
	}

	s.register(uri)

	if c.editor.InsertMode() && !c.Settings().RefreshOnInsertMode {
		return
	}

	s.resync()
}

// DidFocus resyncs after the editor switched to showing uri.
func (c *Controller) DidFocus(uri protocol.DocumentURI) {
	s := c.current()
	if s == nil {
		return
	}

	if uri != "" {
		s.register(uri)
	}

	s.resync()
}

// InsertLeave resyncs once the user stops typing.
func (c *Controller) InsertLeave() {
	s := c.current()
	if s == nil {
		return
	}

	s.resync()
}

// DidClose forgets uri when pruning is enabled. By default the entry stays.
func (c *Controller) DidClose(uri protocol.DocumentURI) {
	s := c.current()
	if s == nil || !c.pruneClosed {
		return
	}

	s.forget(uri)
}

// Wait blocks until the engine is idle: every fetch has resolved, including
// those started by events that arrive while waiting.
func (c *Controller) Wait() {
	s := c.current()
	if s != nil {
		s.inflight.wait()
	}
}

// Documents returns the number of tracked documents, 0 when disabled.
func (c *Controller) Documents() int {
	s := c.current()
	if s != nil {
		return s.registry.Len()
	}

	return 0
}

// Pending returns the number of documents with a request in flight.
func (c *Controller) Pending() int {
	s := c.current()
	if s != nil {
		return s.pending()
	}

	return 0
}

func (c *Controller) linkHighlights(ctx context.Context) {
	for _, group := range []string{inlay.GroupTypeHint, inlay.GroupChainingHint} {
		err := c.sink.LinkHighlight(ctx, group, inlay.GroupHint)
		if err != nil {
			c.logger.Warn("Failed to link highlight group",
				zap.String("group", group),
				zap.Error(err))
		}
	}
}
