package diagfmt

import (
	"path/filepath"
	"strings"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto uses a path relative to BaseDir when the file lives below
	// it and the path as given otherwise.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	Context  int // строк контекста вокруг основной строки
	PathMode PathMode
	BaseDir  string
	// ShowNotes prints the notes attached to each diagnostic.
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

// FormatPath renders path according to mode.
func FormatPath(path string, mode PathMode, baseDir string) string {
	if path == "" {
		return "<input>"
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative, PathModeAuto:
		if rel, ok := relativeTo(path, baseDir); ok {
			return rel
		}
		if mode == PathModeRelative {
			if abs, err := filepath.Abs(path); err == nil {
				return filepath.ToSlash(abs)
			}
		}
	}
	return filepath.ToSlash(path)
}

func relativeTo(path, baseDir string) (string, bool) {
	if baseDir == "" {
		return "", false
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
