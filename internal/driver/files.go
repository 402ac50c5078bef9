package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.lsp.dev/uri"
)

// DefaultInclude matches Firestore rules files.
var DefaultInclude = []string{"*.rules"}

// ListFiles expands paths into a sorted, duplicate-free list of files.
// Directories are walked recursively and only names matching one of include
// are kept; hidden directories are skipped. Explicit file arguments are kept
// regardless of their name.
func ListFiles(paths []string, include []string) ([]string, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			files = append(files, filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if matchesAny(d.Name(), include) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return slices.Compact(files), nil
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

func pathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return string(uri.File(abs))
}
