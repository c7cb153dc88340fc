package engine

import (
	"context"
	"sync/atomic"
)

// Token identifies one in-flight hint request.
// Cancelling it asks the backend to stop early; it does not guarantee it.
type Token struct {
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
}

// Generation returns the token's position in the coordinator's issue order.
func (t *Token) Generation() uint64 {
	return t.generation
}

// Context returns the context the backend call runs under.
func (t *Token) Context() context.Context {
	return t.ctx
}

// Coordinator keeps at most one current request per document.
type Coordinator struct {
	generation atomic.Uint64
	closed     atomic.Bool
	metrics    *Metrics
}

// NewCoordinator creates a coordinator. metrics may be nil.
func NewCoordinator(metrics *Metrics) *Coordinator {
	return &Coordinator{metrics: metrics}
}

// Supersede cancels the pending request of f, if any, and installs a fresh token
// derived from ctx as the current one. It returns nil once the coordinator is closed.
func (c *Coordinator) Supersede(ctx context.Context, f *SourceFile) *Token {
	tokCtx, cancel := context.WithCancel(ctx)
	tok := &Token{
		generation: c.generation.Add(1),
		ctx:        tokCtx,
		cancel:     cancel,
	}

	f.mu.Lock()

	if c.closed.Load() {
		f.mu.Unlock()
		cancel()

		return nil
	}

	prev := f.pending
	f.pending = tok
	f.mu.Unlock()

	if prev != nil {
		prev.cancel()
		c.metrics.superseded()
	}

	return tok
}

// Complete marks tok as resolved. If tok is still the current request of f, the
// pending marker is cleared and onCurrent runs while f is locked, so no newer
// request can complete in between. It reports whether tok was current.
func (c *Coordinator) Complete(f *SourceFile, tok *Token, onCurrent func()) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	tok.cancel()

	if f.pending != tok {
		return false
	}

	f.pending = nil

	if onCurrent != nil {
		onCurrent()
	}

	return true
}

// CancelAll cancels and clears every pending request in r.
func (c *Coordinator) CancelAll(r *Registry) {
	r.ForEach(func(f *SourceFile) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.pending != nil {
			f.pending.cancel()
			f.pending = nil
		}
	})
}

// Close makes every later Supersede a no-op.
func (c *Coordinator) Close() {
	c.closed.Store(true)
}
