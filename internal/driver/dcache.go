package driver

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"firerules/internal/diag"
	"firerules/internal/observ"
)

// diskCacheSchemaVersion is bumped whenever DiskPayload changes shape.
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты проверки файлов по CacheKey на диске.
// Safe for concurrent use by the check workers.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores the diagnostics of one file version.
type DiskPayload struct {
	Schema uint16

	Path        string
	Diagnostics []diag.Diagnostic
	Timings     observ.Report

	// Broken is set when at least one diagnostic is an error.
	Broken bool
}

// OpenDiskCache creates dir if needed and returns a cache rooted there.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	// Для удобства очистки: подкаталог "files" с шардированием по первому байту.
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = diskCacheSchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := encodePayload(f, payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or one written with another schema
// reports false without error.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if payload.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	*out = payload
	return true, nil
}

func encodePayload(w io.Writer, payload *DiskPayload) error {
	return msgpack.NewEncoder(w).Encode(payload)
}

// CacheStats describes what a DiskCache holds.
type CacheStats struct {
	Entries int
	Bytes   int64
}

// Stats walks the entry tree. Temp files of interrupted writes are skipped.
func (c *DiskCache) Stats() (CacheStats, error) {
	var st CacheStats
	if c == nil {
		return st, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	root := filepath.Join(c.dir, "files")
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".mp" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		st.Entries++
		st.Bytes += info.Size()
		return nil
	})
	return st, err
}

// DropAll removes every entry and leaves an empty cache directory behind.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// rename first so a concurrent reader never sees a half-deleted tree
	old := fmt.Sprintf("%s.old-%d", c.dir, time.Now().UnixNano())
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
