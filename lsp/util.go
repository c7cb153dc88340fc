package lsp

import (
	"path/filepath"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// URIToPath converts a document URI to a file system path. Non-file URIs are
// returned unchanged.
func URIToPath(u protocol.DocumentURI) (path string) {
	defer func() {
		// Filename panics on non-file schemes.
		if recover() != nil {
			path = string(u)
		}
	}()

	return u.Filename()
}

// PathToURI converts a file system path to a document URI.
func PathToURI(path string) protocol.DocumentURI {
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}

	return uri.File(path)
}
