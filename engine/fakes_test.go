package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.lsp.dev/protocol"

	"github.com/rlch/inlay"
)

const (
	docA protocol.DocumentURI = "file:///src/main.rs"
	docB protocol.DocumentURI = "file:///src/lib.rs"
)

var errBackend = errors.New("server exploded")

// staticBackend answers immediately from fixed tables.
type staticBackend struct {
	mu    sync.Mutex
	hints map[protocol.DocumentURI][]inlay.Hint
	errs  map[protocol.DocumentURI]error
	calls map[protocol.DocumentURI]int
}

func newStaticBackend() *staticBackend {
	return &staticBackend{
		hints: make(map[protocol.DocumentURI][]inlay.Hint),
		errs:  make(map[protocol.DocumentURI]error),
		calls: make(map[protocol.DocumentURI]int),
	}
}

func (b *staticBackend) InlayHints(_ context.Context, uri protocol.DocumentURI) ([]inlay.Hint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls[uri]++

	err := b.errs[uri]
	if err != nil {
		return nil, err
	}

	return b.hints[uri], nil
}

func (b *staticBackend) set(uri protocol.DocumentURI, hints []inlay.Hint, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hints[uri] = hints
	b.errs[uri] = err
}

func (b *staticBackend) callCount(uri protocol.DocumentURI) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.calls[uri]
}

type response struct {
	hints []inlay.Hint
	err   error
}

// call is one request held by scriptedBackend until the test answers it.
type call struct {
	uri     protocol.DocumentURI
	ctx     context.Context
	respond chan response
}

// scriptedBackend blocks every request until the test responds. It ignores
// cancellation, like a server that finishes its work regardless.
type scriptedBackend struct {
	calls chan *call
}

func newScriptedBackend() *scriptedBackend {
	return &scriptedBackend{calls: make(chan *call, 16)}
}

func (b *scriptedBackend) InlayHints(ctx context.Context, uri protocol.DocumentURI) ([]inlay.Hint, error) {
	c := &call{uri: uri, ctx: ctx, respond: make(chan response, 1)}
	b.calls <- c
	r := <-c.respond

	return r.hints, r.err
}

func (b *scriptedBackend) next(t *testing.T) *call {
	t.Helper()

	select {
	case c := <-b.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a backend call")

		return nil
	}
}

// nextFor returns the next calls for each uri, in the order given.
func (b *scriptedBackend) nextFor(t *testing.T, uris ...protocol.DocumentURI) []*call {
	t.Helper()

	byURI := make(map[protocol.DocumentURI]*call, len(uris))
	for range uris {
		c := b.next(t)
		byURI[c.uri] = c
	}

	out := make([]*call, 0, len(uris))

	for _, uri := range uris {
		c, ok := byURI[uri]
		if !ok {
			t.Fatalf("no call for %s", uri)
		}

		out = append(out, c)
	}

	return out
}

// fakeSink records overlays per document.
type fakeSink struct {
	mu       sync.Mutex
	overlays map[protocol.DocumentURI][]inlay.Decoration
	clears   map[protocol.DocumentURI]int
	links    map[string]string
	linkRuns int
	failLine map[uint32]bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		overlays: make(map[protocol.DocumentURI][]inlay.Decoration),
		clears:   make(map[protocol.DocumentURI]int),
		links:    make(map[string]string),
		failLine: make(map[uint32]bool),
	}
}

func (s *fakeSink) ClearNamespace(_ context.Context, uri protocol.DocumentURI) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.overlays, uri)
	s.clears[uri]++

	return nil
}

func (s *fakeSink) SetVirtualText(_ context.Context, uri protocol.DocumentURI, d inlay.Decoration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failLine[d.Line] {
		return errors.New("invalid line")
	}

	s.overlays[uri] = append(s.overlays[uri], d)

	return nil
}

func (s *fakeSink) LinkHighlight(_ context.Context, group, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.links[group] = target
	s.linkRuns++

	return nil
}

func (s *fakeSink) get(uri protocol.DocumentURI) []inlay.Decoration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]inlay.Decoration(nil), s.overlays[uri]...)
}

func (s *fakeSink) clearCount(uri protocol.DocumentURI) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clears[uri]
}

func (s *fakeSink) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, o := range s.overlays {
		n += len(o)
	}

	return n
}

type fakeEditor struct {
	mu     sync.Mutex
	active protocol.DocumentURI
	insert bool
}

func (e *fakeEditor) ActiveDocument() protocol.DocumentURI {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.active
}

func (e *fakeEditor) InsertMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.insert
}

func (e *fakeEditor) focus(uri protocol.DocumentURI) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.active = uri
}

func (e *fakeEditor) setInsert(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.insert = v
}

type workspace []protocol.DocumentURI

func (w workspace) Documents() []protocol.DocumentURI {
	return w
}

func hint(kind inlay.Kind, label string, line uint32) inlay.Hint {
	return inlay.Hint{
		Kind:   kind,
		Label:  label,
		Anchor: protocol.Position{Line: line, Character: 8},
	}
}

func testSettings() inlay.Settings {
	return inlay.Settings{
		TypeHints:              true,
		ChainingHints:          true,
		TypeHintsSeparator:     ": ",
		ChainingHintsSeparator: " » ",
	}
}
