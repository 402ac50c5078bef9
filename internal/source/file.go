package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"
)

// FileFlags encodes metadata about a source file.
type FileFlags uint8

const (
	// FileVirtual indicates the file was added from memory (editor buffer, test, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures the content of one rules document plus a line index.
type File struct {
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// NewFile normalizes BOM/CRLF and indexes content.
func NewFile(path string, content []byte, flags FileFlags) *File {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// NewVirtualFile wraps in-memory text such as an open editor buffer.
func NewVirtualFile(path, text string) *File {
	return NewFile(path, []byte(text), FileVirtual)
}

// Load reads a file from disk.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewFile(path, content, 0), nil
}

func (f *File) contentLen() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}

// LineCount returns the number of rows, counting a trailing empty row.
func (f *File) LineCount() int {
	return len(f.LineIdx) + 1
}

// LineBounds returns the byte range [start, end) of row, excluding the newline.
func (f *File) LineBounds(row uint32) (start, end uint32) {
	size := f.contentLen()
	if int(row) > len(f.LineIdx) {
		return size, size
	}
	if row > 0 {
		start = f.LineIdx[row-1] + 1
	}
	end = size
	if int(row) < len(f.LineIdx) {
		end = f.LineIdx[row]
	}
	return start, end
}

// Line returns the text of row without its newline.
func (f *File) Line(row uint32) string {
	start, end := f.LineBounds(row)
	return string(f.Content[start:end])
}

// PointAt converts a byte offset into a row/column point.
func (f *File) PointAt(offset uint32) Point {
	if size := f.contentLen(); offset > size {
		offset = size
	}
	idx := sort.Search(len(f.LineIdx), func(i int) bool { return f.LineIdx[i] >= offset })
	row, err := safecast.Conv[uint32](idx)
	if err != nil {
		panic(fmt.Errorf("row overflow: %w", err))
	}
	start, _ := f.LineBounds(row)
	return Point{Row: row, Column: offset - start}
}

// Offset converts a point into a byte offset, clamping to the row end.
func (f *File) Offset(p Point) uint32 {
	start, end := f.LineBounds(p.Row)
	off := start + p.Column
	if off > end {
		return end
	}
	return off
}

// UTF16Column converts the byte column of p into UTF-16 code units.
func (f *File) UTF16Column(p Point) uint32 {
	start, end := f.LineBounds(p.Row)
	limit := start + p.Column
	if limit > end {
		limit = end
	}
	var units uint32
	for off := start; off < limit; {
		r, size := utf8.DecodeRune(f.Content[off:limit])
		if r == utf8.RuneError && size <= 1 {
			size = 1
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		off += uint32(size)
	}
	return units
}

// ByteColumn converts a UTF-16 column on row into a byte column.
func (f *File) ByteColumn(row, units uint32) uint32 {
	start, end := f.LineBounds(row)
	var seen uint32
	off := start
	for off < end && seen < units {
		r, size := utf8.DecodeRune(f.Content[off:end])
		if r == utf8.RuneError && size <= 1 {
			size = 1
		}
		need := uint32(1)
		if r > 0xFFFF {
			need = 2
		}
		if seen+need > units {
			break
		}
		seen += need
		off += uint32(size)
	}
	return off - start
}

// RuneLenAt returns the byte length of the character starting at p, or 0 at
// the end of a row.
func (f *File) RuneLenAt(p Point) uint32 {
	start, end := f.LineBounds(p.Row)
	off := start + p.Column
	if off >= end {
		return 0
	}
	_, size := utf8.DecodeRune(f.Content[off:end])
	if size == 0 {
		size = 1
	}
	return uint32(size)
}

// Slice returns the text between two points, end exclusive.
func (f *File) Slice(start, end Point) string {
	from, to := f.Offset(start), f.Offset(end)
	if to < from {
		return ""
	}
	return string(f.Content[from:to])
}

// BaseName returns the last path element.
func (f *File) BaseName() string {
	return filepath.Base(f.Path)
}

// Len returns the content size in bytes.
func (f *File) Len() uint32 {
	return f.contentLen()
}
