package analysis

import (
	"slices"
	"sync"
	"sync/atomic"

	"firerules/internal/source"
)

// Store holds the latest Document per URI. Updates build a new snapshot
// before publishing it with one atomic swap.
type Store struct {
	opts Options

	mu   sync.RWMutex
	docs map[string]*atomic.Pointer[Document]
}

func NewStore(opts Options) *Store {
	return &Store{opts: opts, docs: make(map[string]*atomic.Pointer[Document])}
}

func (s *Store) Options() Options { return s.opts }

func (s *Store) slot(uri string, create bool) *atomic.Pointer[Document] {
	s.mu.RLock()
	p := s.docs[uri]
	s.mu.RUnlock()
	if p != nil || !create {
		return p
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p = s.docs[uri]; p == nil {
		p = new(atomic.Pointer[Document])
		s.docs[uri] = p
	}
	return p
}

// Update analyzes text and publishes it unless a newer version is already
// stored. It returns the stored document, which is the new one on success.
func (s *Store) Update(uri string, version int32, path, text string) (*Document, bool) {
	doc := Parse(uri, version, source.NewVirtualFile(path, text), s.opts)
	p := s.slot(uri, true)
	for {
		cur := p.Load()
		if cur != nil && cur.Version > version {
			return cur, false
		}
		if p.CompareAndSwap(cur, doc) {
			return doc, true
		}
	}
}

// Get returns the latest document for uri, or nil.
func (s *Store) Get(uri string) *Document {
	p := s.slot(uri, false)
	if p == nil {
		return nil
	}
	return p.Load()
}

func (s *Store) Remove(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// URIs lists stored documents in sorted order.
func (s *Store) URIs() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.docs))
	for uri, p := range s.docs {
		if p.Load() != nil {
			out = append(out, uri)
		}
	}
	s.mu.RUnlock()
	slices.Sort(out)
	return out
}
