package diag

import (
	"math"
	"sort"

	"firerules/internal/source"
)

// Bag collects diagnostics for one document up to a fixed limit.
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag creates a bag holding at most limit diagnostics; limit <= 0 means
// the largest supported limit.
func NewBag(limit int) *Bag {
	if limit <= 0 || limit > math.MaxUint16 {
		limit = math.MaxUint16
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(limit, 64)),
		max:   uint16(limit),
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// AddAll adds diagnostics until the limit is hit and reports how many were dropped.
func (b *Bag) AddAll(ds []Diagnostic) (dropped int) {
	for _, d := range ds {
		if !b.Add(d) {
			dropped++
		}
	}
	return dropped
}

// HasErrors reports whether any diagnostic is an error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with exactly sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Sort orders by start, end, severity (desc), code.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start.Less(dj.Primary.Start)
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End.Less(dj.Primary.End)
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

type dedupKey struct {
	code Code
	span source.Span
	msg  string
}

// Dedup drops repeats of the same code, primary span and message, keeping
// the first occurrence. It returns the number removed.
func (b *Bag) Dedup() int {
	seen := make(map[dedupKey]struct{}, len(b.items))
	kept := b.items[:0]
	for _, d := range b.items {
		key := dedupKey{code: d.Code, span: d.Primary, msg: d.Message}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, d)
	}
	removed := len(b.items) - len(kept)
	b.items = kept
	return removed
}
