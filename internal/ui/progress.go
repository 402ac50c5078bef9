package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"firerules/internal/driver"
)

// fileState is the row status shown for one rules file.
type fileState uint8

const (
	stateQueued fileState = iota
	stateLoading
	stateCache
	stateParsing
	stateDiagnosing
	stateOK
	stateCached
	stateFailed
)

var stateLabels = [...]string{
	stateQueued:     "queued",
	stateLoading:    "loading",
	stateCache:      "cache",
	stateParsing:    "parsing",
	stateDiagnosing: "diagnosing",
	stateOK:         "ok",
	stateCached:     "cached",
	stateFailed:     "error",
}

func (s fileState) String() string { return stateLabels[s] }

func (s fileState) final() bool { return s >= stateOK }

// weight is the share of one file's work finished in state s.
func (s fileState) weight() float64 {
	switch s {
	case stateQueued:
		return 0
	case stateLoading:
		return 0.1
	case stateCache:
		return 0.2
	case stateParsing:
		return 0.4
	case stateDiagnosing:
		return 0.8
	}
	return 1
}

func (s fileState) style() lipgloss.Style {
	st := lipgloss.NewStyle()
	switch s {
	case stateOK, stateCached:
		return st.Foreground(lipgloss.Color("2"))
	case stateFailed:
		return st.Foreground(lipgloss.Color("1"))
	case stateQueued:
		return st.Foreground(lipgloss.Color("7"))
	}
	return st.Foreground(lipgloss.Color("6"))
}

// stateFor maps a driver event onto the row state; ok is false for events
// that do not change the row.
func stateFor(ev driver.Event) (fileState, bool) {
	switch ev.Status {
	case driver.StatusQueued:
		return stateQueued, true
	case driver.StatusDone:
		if ev.Cached {
			return stateCached, true
		}
		return stateOK, true
	case driver.StatusError:
		return stateFailed, true
	case driver.StatusWorking:
		switch ev.Stage {
		case driver.StageLoad:
			return stateLoading, true
		case driver.StageCache:
			return stateCache, true
		case driver.StageParse:
			return stateParsing, true
		case driver.StageDiagnose:
			return stateDiagnosing, true
		}
	}
	return 0, false
}

type fileRow struct {
	path    string
	state   fileState
	elapsed time.Duration
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	index   map[string]int
	width   int
	height  int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders check progress.
// The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	rows := make([]fileRow, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		rows[i] = fileRow{path: file}
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    rows,
		index:   index,
		width:   80,
	}
}

// Run renders progress to out until events is closed.
func Run(out io.Writer, title string, files []string, events <-chan driver.Event) error {
	_, err := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out)).Run()
	return err
}

// ChannelSink forwards driver events to a channel.
type ChannelSink chan driver.Event

func (c ChannelSink) OnEvent(ev driver.Event) { c <- ev }

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.waitEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	finished, failed := 0, 0
	for _, r := range m.rows {
		if r.state.final() {
			finished++
		}
		if r.state == stateFailed {
			failed++
		}
	}
	header := fmt.Sprintf("%s (%d/%d)", m.title, finished, len(m.rows))
	if failed > 0 {
		header += fmt.Sprintf(", %d failing", failed)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Render(header))
	b.WriteString("\n\n")

	const statusWidth = 10
	nameWidth := max(m.width-statusWidth-14, 20)
	visible, hidden := m.visibleRows()
	for _, r := range visible {
		status := r.state.style().Render(fmt.Sprintf("%*s", statusWidth, r.state))
		line := "  " + status + " " + truncate(r.path, nameWidth)
		if r.state.final() && r.elapsed > 0 {
			line += "  " + r.elapsed.Round(time.Millisecond).String()
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if hidden > 0 {
		fmt.Fprintf(&b, "  ... %d more\n", hidden)
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// visibleRows fits the file list into the terminal height. Rows that still
// need attention (working, queued, failed) win over finished ones.
func (m *progressModel) visibleRows() ([]fileRow, int) {
	limit := m.height - 6 // header, blank lines, bar
	if m.height == 0 || limit >= len(m.rows) {
		return m.rows, 0
	}
	limit = max(limit-1, 1) // room for "... N more"
	out := make([]fileRow, 0, limit)
	for _, r := range m.rows {
		if len(out) < limit && (r.state == stateFailed || !r.state.final()) {
			out = append(out, r)
		}
	}
	for _, r := range m.rows {
		if len(out) < limit && r.state.final() && r.state != stateFailed {
			out = append(out, r)
		}
	}
	return out, len(m.rows) - len(out)
}

func (m *progressModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[idx]
	if state, ok := stateFor(ev); ok {
		row.state = state
	}
	if row.state.final() {
		row.elapsed = ev.Elapsed
	}

	total := 0.0
	for _, r := range m.rows {
		total += r.state.weight()
	}
	return m.bar.SetPercent(total / float64(len(m.rows)))
}

// truncate shortens value to width terminal cells, ending in "..." when
// there is room for it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
