package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce groups bursts of editor writes into one re-check.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watch calls onChange with the sorted set of changed rules files each time
// a burst of file system events under paths settles. It returns nil when ctx
// is done.
func Watch(ctx context.Context, paths []string, include []string, debounce time.Duration, onChange func(changed []string)) error {
	if len(include) == 0 {
		include = DefaultInclude
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	explicit := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			explicit[filepath.Clean(abs)] = true
			if err := watcher.Add(filepath.Dir(abs)); err != nil {
				return err
			}
			continue
		}
		if err := addWatchRecursive(watcher, abs); err != nil {
			return err
		}
	}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, path)
					continue
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			if !explicit[path] && !matchesAny(filepath.Base(path), include) {
				continue
			}
			pending[path] = true
			timer.Reset(debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			slices.Sort(changed)
			pending = map[string]bool{}
			onChange(changed)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return watchErr
		}
	}
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string) error {
	root = filepath.Clean(root)
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(entry.Name(), ".") || entry.Name() == "node_modules") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
