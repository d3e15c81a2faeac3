// Package viewer plays a simulated stream into a scrolling terminal view.
package viewer

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/samsaffron/msgblocks/internal/stream"
	"github.com/samsaffron/msgblocks/internal/ui"
)

// tickMsg advances the stream by one chunk. Ticks from an older chain carry
// a stale gen and are dropped.
type tickMsg struct {
	gen int
}

// Totals accumulates per-tick work across a whole playback.
type Totals struct {
	Ticks    int
	Rendered int
	Skipped  int
}

// Model is the stream viewer model
type Model struct {
	width  int
	height int

	driver   *stream.Driver
	chunks   []string
	next     int
	interval time.Duration
	paused   bool
	tickGen  int

	last   stream.Tick
	totals Totals

	viewport viewport.Model
	spinner  spinner.Model
	styles   *ui.Styles
	keyMap   KeyMap
}

// New creates a viewer that feeds chunks to driver every interval.
func New(driver *stream.Driver, chunks []string, interval time.Duration, width, height int, styles *ui.Styles) *Model {
	if styles == nil {
		styles = ui.NewStyles(os.Stdout, nil, false)
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Muted

	m := &Model{
		driver:   driver,
		chunks:   chunks,
		interval: interval,
		viewport: viewport.New(width, max(height-1, 1)), // -1 for status line
		spinner:  s,
		styles:   styles,
		keyMap:   DefaultKeyMap(),
	}
	m.width, m.height = width, height
	return m
}

// Init starts playback
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tickCmd())
}

// Done reports whether every chunk was fed.
func (m *Model) Done() bool {
	return m.next >= len(m.chunks)
}

// Paused reports whether playback is paused.
func (m *Model) Paused() bool {
	return m.paused
}

// Totals returns the accumulated work so far.
func (m *Model) Totals() Totals {
	return m.totals
}

// Last returns the most recent tick.
func (m *Model) Last() stream.Tick {
	return m.last
}

func (m *Model) tickCmd() tea.Cmd {
	if m.Done() {
		return nil
	}
	gen := m.tickGen
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-1, 1)
		m.show(m.driver.Resize(msg.Width))

	case tickMsg:
		if msg.gen != m.tickGen || m.paused || m.Done() {
			return m, nil
		}
		m.advance()
		return m, m.tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Pause):
		m.paused = !m.paused
		if !m.paused {
			m.tickGen++
			return m, m.tickCmd()
		}

	case key.Matches(msg, m.keyMap.Expand):
		m.show(m.driver.SetExpanded(!m.driver.Expanded()))

	case key.Matches(msg, m.keyMap.Finish):
		for !m.Done() {
			m.advance()
		}

	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.ScrollUp(1)

	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.ScrollDown(1)
	}
	return m, nil
}

func (m *Model) advance() {
	tick := m.driver.Append(m.chunks[m.next])
	m.next++
	m.totals.Ticks++
	m.totals.Rendered += tick.Stats.Rendered
	m.totals.Skipped += tick.Stats.Skipped
	m.show(tick)
}

func (m *Model) show(tick stream.Tick) {
	follow := m.viewport.AtBottom()
	m.last = tick
	m.viewport.SetContent(tick.Frame)
	if follow {
		m.viewport.GotoBottom()
	}
}

// View renders the model
func (m *Model) View() string {
	return m.viewport.View() + "\n" + m.statusLine()
}

func (m *Model) statusLine() string {
	var b strings.Builder
	switch {
	case m.Done():
		b.WriteString(m.styles.Title.Render("done"))
	case m.paused:
		b.WriteString(m.styles.Warning.Render("paused"))
	default:
		b.WriteString(m.spinner.View())
	}

	st := m.last.Stats
	fmt.Fprintf(&b, " %d/%d  blocks %d  reused %d  rendered %d",
		m.next, len(m.chunks), st.Blocks, st.Reused, st.Rendered)
	if m.last.Collapsed {
		fmt.Fprintf(&b, "  (%d lines hidden)", st.HiddenLines)
	}

	var help []string
	for _, k := range m.keyMap.ShortHelp() {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString("  " + m.styles.Muted.Render(strings.Join(help, " • ")))

	return ui.TruncateStyled(b.String(), max(m.width, 1))
}
