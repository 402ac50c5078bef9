package lsp

import (
	"strings"

	"go.lsp.dev/uri"
)

// uriToPath returns the file system path of a file URI, or "" for other
// schemes.
func uriToPath(u string) string {
	if !strings.HasPrefix(u, uri.FileScheme+"://") {
		return ""
	}
	path, ok := filename(uri.URI(u))
	if !ok {
		return ""
	}
	return path
}

// Filename panics on URIs it cannot parse.
func filename(u uri.URI) (path string, ok bool) {
	defer func() {
		if recover() != nil {
			path, ok = "", false
		}
	}()
	return u.Filename(), true
}

func pathToURI(path string) string {
	if path == "" {
		return ""
	}
	return string(uri.File(path))
}

// displayPath names a document for diagnostics and file names: its path for
// file URIs, the URI itself otherwise.
func displayPath(u string) string {
	if path := uriToPath(u); path != "" {
		return path
	}
	return u
}
