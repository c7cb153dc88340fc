package backend

import (
	"strings"
	"unicode/utf16"

	"go.lsp.dev/protocol"
)

// endOf returns the position just past the last character of text, counting
// characters in UTF-16 code units as LSP does.
func endOf(text string) protocol.Position {
	line := strings.Count(text, "\n")

	last := text
	i := strings.LastIndexByte(text, '\n')
	if i >= 0 {
		last = text[i+1:]
	}

	return protocol.Position{
		Line:      uint32(line),                            //nolint:gosec // G115: line counts fit in uint32
		Character: uint32(len(utf16.Encode([]rune(last)))), //nolint:gosec // G115: line widths fit in uint32
	}
}
