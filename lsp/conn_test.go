package lsp_test

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/inlay"
	"github.com/rlch/inlay/lsp"
)

// editorRecorder is the editor end of the connection. It keeps the overlays
// the daemon asked it to draw.
type editorRecorder struct {
	mu       sync.Mutex
	overlays map[protocol.DocumentURI][]string
}

func (e *editorRecorder) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch req.Method() {
	case lsp.MethodClearNamespace:
		var p lsp.ClearNamespaceParams
		err := json.Unmarshal(req.Params(), &p)
		if err != nil {
			return err
		}

		delete(e.overlays, p.URI)

	case lsp.MethodSetVirtualText:
		var p lsp.SetVirtualTextParams
		err := json.Unmarshal(req.Params(), &p)
		if err != nil {
			return err
		}

		e.overlays[p.URI] = append(e.overlays[p.URI], p.Text)
	}

	return reply(ctx, nil, nil)
}

func (e *editorRecorder) texts(uri protocol.DocumentURI) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]string(nil), e.overlays[uri]...)
}

func TestServer_OverJSONRPC(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	editorEnd, daemonEnd := net.Pipe()

	backend := newMockBackend()
	backend.hints[mainURI] = []inlay.Hint{
		{Kind: inlay.KindType, Label: "String", Anchor: protocol.Position{Line: 2, Character: 10}},
	}

	daemonConn := jsonrpc2.NewConn(jsonrpc2.NewStream(daemonEnd))
	server := lsp.NewServer(protocol.ClientDispatcher(daemonConn, zap.NewNop()), daemonConn, backend,
		inlay.DefaultConfig(), zap.NewNop())
	daemonConn.Go(ctx, protocol.ServerHandler(server, nil))

	recorder := &editorRecorder{overlays: make(map[protocol.DocumentURI][]string)}
	editorConn := jsonrpc2.NewConn(jsonrpc2.NewStream(editorEnd))
	editorConn.Go(ctx, recorder.handle)
	editor := protocol.ServerDispatcher(editorConn, zap.NewNop())

	defer func() {
		_ = editorConn.Close()
		_ = daemonConn.Close()
	}()

	_, err := editor.Initialize(ctx, &protocol.InitializeParams{RootURI: "file:///src"})
	require.NoError(t, err)
	require.NoError(t, editor.Initialized(ctx, &protocol.InitializedParams{}))
	require.NoError(t, editor.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        mainURI,
			LanguageID: "rust",
			Version:    1,
			Text:       "fn main() {\n    let s = String::new();\n}",
		},
	}))

	want := []string{"‣ String"}
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(want, recorder.texts(mainURI))
	}, 2*time.Second, 10*time.Millisecond)

	var toggled lsp.ToggleResult
	_, err = editorConn.Call(ctx, lsp.MethodToggle, map[string]any{}, &toggled)
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)

	require.Eventually(t, func() bool {
		return len(recorder.texts(mainURI)) == 0
	}, 2*time.Second, 10*time.Millisecond)

	var status lsp.StatusResult
	_, err = editorConn.Call(ctx, lsp.MethodStatus, map[string]any{}, &status)
	require.NoError(t, err)
	assert.False(t, status.Enabled)
	assert.Equal(t, mainURI, status.Active)
}
