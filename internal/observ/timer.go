package observ

import (
	"fmt"
	"strings"
	"time"
)

type phase struct {
	name string
	dur  time.Duration
	note string
}

// Timer records the phases of one document analysis in order. It is not safe
// for concurrent use.
type Timer struct {
	phases []phase
	now    func() time.Time
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

// Phase starts a phase; calling the returned stop function records its
// duration with an optional note. Only the first stop call counts.
func (t *Timer) Phase(name string) (stop func(note string)) {
	started := t.now()
	stopped := false
	return func(note string) {
		if stopped {
			return
		}
		stopped = true
		t.phases = append(t.phases, phase{name: name, dur: t.now().Sub(started), note: note})
	}
}

// PhaseReport is one phase in milliseconds.
type PhaseReport struct {
	Name       string  `json:"name" msgpack:"name"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	Note       string  `json:"note,omitempty" msgpack:"note,omitempty"`
}

// Report is what gets cached and printed for --timings.
type Report struct {
	TotalMS float64       `json:"total_ms" msgpack:"total_ms"`
	Phases  []PhaseReport `json:"phases" msgpack:"phases"`
}

// Report freezes the recorded phases; the total is their sum.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	r := Report{Phases: make([]PhaseReport, len(t.phases))}
	for i, p := range t.phases {
		ms := millis(p.dur)
		r.Phases[i] = PhaseReport{Name: p.name, DurationMS: ms, Note: p.note}
		r.TotalMS += ms
	}
	return r
}

// Aggregate sums reports phase by phase, keeping first-seen phase order.
// Notes are dropped.
func Aggregate(reports []Report) Report {
	var out Report
	index := make(map[string]int)
	for _, r := range reports {
		for _, p := range r.Phases {
			i, ok := index[p.Name]
			if !ok {
				i = len(out.Phases)
				index[p.Name] = i
				out.Phases = append(out.Phases, PhaseReport{Name: p.Name})
			}
			out.Phases[i].DurationMS += p.DurationMS
		}
		out.TotalMS += r.TotalMS
	}
	return out
}

// Summary renders the report as a table with each phase's share of the total.
func (r Report) Summary() string {
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		share := 0.0
		if r.TotalMS > 0 {
			share = 100 * p.DurationMS / r.TotalMS
		}
		fmt.Fprintf(&sb, "  %-12s %9.2f ms %5.1f%%", p.Name, p.DurationMS, share)
		if p.Note != "" {
			sb.WriteString("  " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-12s %9.2f ms\n", "total", r.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
