package preview

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/inlay"
	"github.com/rlch/inlay/engine"
)

// Backend is the part of the language server a preview needs.
type Backend interface {
	engine.Backend

	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
}

// File is a document to preview.
type File struct {
	URI        protocol.DocumentURI
	LanguageID string
	Text       string
}

// Run opens file in the backend and performs one engine pass with it as the
// active document. It returns the overlays the engine drew.
func Run(ctx context.Context, backend Backend, file File, settings inlay.Settings, logger *zap.Logger) ([]inlay.Decoration, error) {
	err := backend.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        file.URI,
			LanguageID: protocol.LanguageIdentifier(file.LanguageID),
			Version:    1,
			Text:       file.Text,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file.URI, err)
	}

	rec := NewRecorder()
	view := singleDocument(file.URI)

	ctrl := engine.NewController(backend, rec, view, view,
		engine.WithLogger(logger),
		engine.WithSettings(settings),
	)
	ctrl.Start(ctx)
	ctrl.Wait()

	decorations := rec.Decorations(file.URI)
	ctrl.Stop(ctx)

	return decorations, nil
}

// singleDocument is an editor showing one document, never in insert mode.
type singleDocument protocol.DocumentURI

func (d singleDocument) ActiveDocument() protocol.DocumentURI { return protocol.DocumentURI(d) }
func (d singleDocument) InsertMode() bool                     { return false }
func (d singleDocument) Documents() []protocol.DocumentURI {
	return []protocol.DocumentURI{protocol.DocumentURI(d)}
}

// Print writes text with a line-number gutter, appending each decoration's
// virtual text to the end of its line. Decorations past the last line are
// dropped.
func Print(w io.Writer, text string, decorations []inlay.Decoration, styles *Styles) error {
	if styles == nil {
		styles = PlainStyles()
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	byLine := make(map[uint32][]inlay.Decoration, len(decorations))
	for _, d := range decorations {
		byLine[d.Line] = append(byLine[d.Line], d)
	}

	width := len(strconv.Itoa(len(lines)))

	var b strings.Builder

	for i, line := range lines {
		b.WriteString(styles.LineNumber.Render(fmt.Sprintf("%*d", width, i+1)))
		b.WriteString(styles.Gutter)
		b.WriteString(line)

		for _, d := range byLine[uint32(i)] { //nolint:gosec // G115: line counts fit in uint32
			b.WriteByte(' ')
			b.WriteString(styles.group(d.Group).Render(d.Text))
		}

		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())

	return err
}
