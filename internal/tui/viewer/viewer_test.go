package viewer

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samsaffron/msgblocks/internal/blocks"
	"github.com/samsaffron/msgblocks/internal/render"
	"github.com/samsaffron/msgblocks/internal/stream"
	"github.com/samsaffron/msgblocks/internal/ui"
)

func newTestModel(t *testing.T, text string, cfg stream.Config) *Model {
	t.Helper()
	styles := ui.NewStyles(io.Discard, nil, true)
	term := render.NewTerminal(render.TerminalOptions{Styles: styles, MarkdownStyle: "notty", UserText: true})
	d := render.NewDispatcher(render.CollaboratorsFor(term), 80)
	return New(stream.NewDriver(d, cfg), stream.Chunks(text, 5), time.Millisecond, 80, 24, styles)
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestPlayback(t *testing.T) {
	m := newTestModel(t, "hello there world", stream.Config{Role: blocks.RoleUser})
	if m.Init() == nil {
		t.Fatal("expected Init command")
	}

	for !m.Done() {
		_, cmd := m.Update(tickMsg{})
		if cmd == nil && !m.Done() {
			t.Fatal("expected another tick while chunks remain")
		}
	}
	if got := m.Totals().Ticks; got != 4 {
		t.Errorf("Ticks = %d, want 4", got)
	}
	if !strings.Contains(m.View(), "hello there world") {
		t.Errorf("view missing text:\n%s", m.View())
	}
	if !strings.Contains(m.View(), "done") {
		t.Errorf("status line should report done:\n%s", m.View())
	}

	if _, cmd := m.Update(tickMsg{}); cmd != nil {
		t.Error("no ticks after done")
	}
}

func TestPauseAndFinish(t *testing.T) {
	m := newTestModel(t, "one two three four five", stream.Config{})

	m.Update(keyMsg('p'))
	if !m.Paused() {
		t.Fatal("expected paused")
	}
	m.Update(tickMsg{})
	if m.Totals().Ticks != 0 {
		t.Error("paused model must not advance")
	}

	_, cmd := m.Update(keyMsg('p'))
	if m.Paused() || cmd == nil {
		t.Error("resume should schedule a tick")
	}

	m.Update(keyMsg('f'))
	if !m.Done() {
		t.Error("finish should feed every chunk")
	}
	if m.Last().Stats.Blocks != 1 {
		t.Errorf("Blocks = %d, want 1", m.Last().Stats.Blocks)
	}
}

func TestExpandCollapsedText(t *testing.T) {
	m := newTestModel(t, "a\nb\nc\nd\ne\nf", stream.Config{Role: blocks.RoleUser, CollapseLines: 2})
	m.Update(keyMsg('f'))
	if !m.Last().Collapsed {
		t.Fatal("expected collapsed text")
	}
	if !strings.Contains(m.View(), "lines hidden") {
		t.Errorf("status should mention hidden lines:\n%s", m.View())
	}

	m.Update(keyMsg('e'))
	if m.Last().Collapsed {
		t.Error("expand should show the full text")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, "x", stream.Config{})
	_, cmd := m.Update(keyMsg('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestWindowResize(t *testing.T) {
	m := newTestModel(t, "resize me", stream.Config{})
	m.Update(keyMsg('f'))
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if m.viewport.Width != 40 || m.viewport.Height != 9 {
		t.Errorf("viewport = %dx%d, want 40x9", m.viewport.Width, m.viewport.Height)
	}
	if m.Last().Stats.Rendered != 1 {
		t.Errorf("resize should re-render, stats = %+v", m.Last().Stats)
	}
}

func TestResumeDropsStaleTicks(t *testing.T) {
	m := newTestModel(t, "one two three four five", stream.Config{})

	m.Update(keyMsg('p'))
	_, cmd := m.Update(keyMsg('p'))
	if cmd == nil {
		t.Fatal("resume should schedule a tick")
	}

	// The tick scheduled before the pause is still in flight.
	if _, next := m.Update(tickMsg{}); next != nil || m.Totals().Ticks != 0 {
		t.Fatalf("stale tick advanced playback, ticks = %d", m.Totals().Ticks)
	}

	if _, next := m.Update(cmd()); next == nil || m.Totals().Ticks != 1 {
		t.Errorf("current tick should advance and reschedule, ticks = %d", m.Totals().Ticks)
	}
}
