//nolint:testpackage // Tests need access to internal types
package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/rlch/inlay"
)

const testURI protocol.DocumentURI = "file:///src/main.rs"

func TestCoordinator_SupersedeCancelsPrevious(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(nil)
	f := NewRegistry().Register(testURI)

	first := c.Supersede(context.Background(), f)
	second := c.Supersede(context.Background(), f)

	require.Error(t, first.Context().Err())
	require.NoError(t, second.Context().Err())
	assert.Same(t, second, f.Pending())
	assert.Greater(t, second.Generation(), first.Generation())
}

func TestCoordinator_CompleteOnlyClearsCurrent(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(nil)
	f := NewRegistry().Register(testURI)

	stale := c.Supersede(context.Background(), f)
	current := c.Supersede(context.Background(), f)

	ran := false
	assert.False(t, c.Complete(f, stale, func() { ran = true }))
	assert.False(t, ran)
	assert.Same(t, current, f.Pending())

	assert.True(t, c.Complete(f, current, func() { ran = true }))
	assert.True(t, ran)
	assert.Nil(t, f.Pending())

	// Completing twice is harmless.
	assert.False(t, c.Complete(f, current, nil))
}

func TestCoordinator_CloseRefusesNewTokens(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(nil)
	r := NewRegistry()
	f := r.Register(testURI)

	tok := c.Supersede(context.Background(), f)

	c.Close()
	c.CancelAll(r)

	require.Error(t, tok.Context().Err())
	assert.Nil(t, f.Pending())
	assert.Nil(t, c.Supersede(context.Background(), f))
	assert.NotSame(t, tok, f.Pending())
}

func TestCoordinator_ConcurrentSupersedeLeavesOneCurrent(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(nil)
	f := NewRegistry().Register(testURI)

	const n = 64

	tokens := make([]*Token, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)

		go func() {
			defer wg.Done()

			tokens[i] = c.Supersede(context.Background(), f)
		}()
	}
	wg.Wait()

	current := 0
	for _, tok := range tokens {
		if f.Pending() == tok {
			current++

			assert.NoError(t, tok.Context().Err())
		} else {
			assert.Error(t, tok.Context().Err())
		}
	}

	assert.Equal(t, 1, current)
}

func TestRegistry_RegisterIsIdempotent(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	a := r.Register(testURI)
	b := r.Register(testURI)

	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ForEachAndForget(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	uris := []protocol.DocumentURI{"file:///a.rs", "file:///b.rs", "file:///c.rs"}

	for _, uri := range uris {
		r.Register(uri)
	}

	seen := map[protocol.DocumentURI]bool{}
	r.ForEach(func(f *SourceFile) {
		seen[f.URI] = true
	})
	assert.Len(t, seen, 3)

	_, ok := r.Forget("file:///b.rs")
	assert.True(t, ok)

	_, ok = r.Forget("file:///b.rs")
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())
}

func TestDecorations(t *testing.T) {
	t.Parallel()

	at := func(line uint32) protocol.Position {
		return protocol.Position{Line: line}
	}
	hints := []inlay.Hint{
		{Kind: inlay.KindChaining, Label: "-> i32", Anchor: at(5)},
		{Kind: inlay.KindParameter, Label: "n:", Anchor: at(4)},
		{Kind: inlay.KindType, Label: ": i32", Anchor: at(3)},
		{Kind: inlay.Kind("Unknown"), Label: "?", Anchor: at(2)},
	}

	tests := []struct {
		name     string
		settings inlay.Settings
		want     []inlay.Decoration
	}{
		{
			name: "both kinds, types first",
			settings: inlay.Settings{
				TypeHints: true, ChainingHints: true,
				TypeHintsSeparator: ": ", ChainingHintsSeparator: " » ",
			},
			want: []inlay.Decoration{
				{Line: 3, Text: ": : i32", Group: inlay.GroupTypeHint},
				{Line: 5, Text: " » -> i32", Group: inlay.GroupChainingHint},
			},
		},
		{
			name:     "chaining only",
			settings: inlay.Settings{ChainingHints: true, ChainingHintsSeparator: "=> "},
			want: []inlay.Decoration{
				{Line: 5, Text: "=> -> i32", Group: inlay.GroupChainingHint},
			},
		},
		{
			name:     "nothing enabled",
			settings: inlay.Settings{},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diff := cmp.Diff(tt.want, Decorations(hints, tt.settings))
			if diff != "" {
				t.Errorf("Decorations() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartition_KeepsParameterHints(t *testing.T) {
	t.Parallel()

	b := partition([]inlay.Hint{
		{Kind: inlay.KindParameter, Label: "x:"},
		{Kind: inlay.KindParameter, Label: "y:"},
		{Kind: inlay.Kind("Other")},
	})

	assert.Len(t, b.parameters, 2)
	assert.Empty(t, b.types)
	assert.Empty(t, b.chaining)
}

func TestFlights_WaitSpansLateArrivals(t *testing.T) {
	t.Parallel()

	f := newFlights()
	f.wait() // idle from the start

	f.add()

	waited := make(chan struct{})

	go func() {
		f.wait()
		close(waited)
	}()

	f.add()
	f.done()

	select {
	case <-waited:
		t.Fatal("wait returned with a refresh still in progress")
	case <-time.After(20 * time.Millisecond):
	}

	f.done()

	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not return once idle")
	}
}
