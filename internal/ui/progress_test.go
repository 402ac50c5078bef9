package ui

import (
	"strings"
	"testing"
	"time"

	"firerules/internal/driver"
)

func TestApplyEventTracksStatus(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("check", []string{"a.rules", "b.rules"}, events).(*progressModel)

	m.applyEvent(driver.Event{File: "a.rules", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.rows[0].state != stateParsing || m.rows[0].state.final() {
		t.Fatalf("row a = %+v", m.rows[0])
	}
	m.applyEvent(driver.Event{File: "a.rules", Stage: driver.StageDiagnose, Status: driver.StatusError, Elapsed: 3 * time.Millisecond})
	m.applyEvent(driver.Event{File: "b.rules", Stage: driver.StageCache, Status: driver.StatusDone, Cached: true})
	m.applyEvent(driver.Event{File: "unknown.rules", Status: driver.StatusDone})

	if m.rows[0].state != stateFailed || m.rows[0].elapsed != 3*time.Millisecond {
		t.Fatalf("row a = %+v", m.rows[0])
	}
	if m.rows[1].state != stateCached {
		t.Fatalf("row b = %+v", m.rows[1])
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "(2/2), 1 failing") || !strings.Contains(view, "error a.rules  3ms") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestVisibleRowsPrefersUnfinished(t *testing.T) {
	files := []string{"a.rules", "b.rules", "c.rules", "d.rules", "e.rules"}
	m := NewProgressModel("check", files, nil).(*progressModel)
	for _, f := range files[:4] {
		m.applyEvent(driver.Event{File: f, Status: driver.StatusDone})
	}
	m.height = 9 // three rows, one of them the "more" line
	rows, hidden := m.visibleRows()
	if len(rows) != 2 || hidden != 3 || rows[0].path != "e.rules" {
		t.Fatalf("rows = %+v, hidden = %d", rows, hidden)
	}
	if !strings.Contains(stripANSI(m.View()), "... 3 more") {
		t.Fatalf("view:\n%s", m.View())
	}
}

func TestUpdateQuitsWhenEventsClose(t *testing.T) {
	m := NewProgressModel("check", []string{"a.rules"}, nil).(*progressModel)
	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatalf("done = %v, cmd = %v", m.done, cmd)
	}
	if !strings.HasPrefix(stripANSI(m.View()), "done: check") {
		t.Fatalf("view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.rules", 20, "short.rules"},
		{"very/long/path/firestore.rules", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"日本語.rules", 5, "日..."},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
