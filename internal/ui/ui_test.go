package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestLexerFor(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"go", true},
		{"js", true},
		{"main.py", true},
		{"python title=demo.py", true},
		{"", false},
		{"definitely-not-a-language", false},
	}
	for _, tt := range tests {
		if got := LexerFor(tt.title) != nil; got != tt.want {
			t.Errorf("LexerFor(%q) found = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestHighlightKeepsText(t *testing.T) {
	code := "package main\n\nfunc main() {}\n"
	h := NewHighlighter("go", "monokai")
	if h == nil {
		t.Fatal("expected a highlighter for go")
	}
	out := h.Highlight(code)
	if StripANSI(out) != code {
		t.Errorf("highlighting changed the text\ngot:  %q\nwant: %q", StripANSI(out), code)
	}
	if strings.Count(out, "\n") != strings.Count(code, "\n") {
		t.Errorf("line count changed: %q", out)
	}

	var nilH *Highlighter
	if nilH.Highlight(code) != code {
		t.Error("nil highlighter must return the input")
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("# Title\n\nSome **bold** text.", 60, "notty", nil)
	plain := StripANSI(out)
	if !strings.Contains(plain, "Title") || !strings.Contains(plain, "bold") {
		t.Errorf("unexpected render: %q", plain)
	}
	if RenderMarkdown("", 60, "notty", nil) != "" {
		t.Error("empty content should render empty")
	}

	themed := RenderMarkdown("plain words", 60, MarkdownStyleTheme, nil)
	if !strings.Contains(StripANSI(themed), "plain words") {
		t.Errorf("unexpected themed render: %q", themed)
	}
}

func TestTextHelpers(t *testing.T) {
	if got := Truncate("hello world", 6); got != "hello…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := VisibleWidth("\x1b[1mabc\x1b[0m\nab"); got != 3 {
		t.Errorf("VisibleWidth = %d, want 3", got)
	}
	if got := CountLines("a\nb\n"); got != 2 {
		t.Errorf("CountLines = %d, want 2", got)
	}
	wrapped := WrapText(strings.Repeat("word ", 20), 20)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 21 {
			t.Errorf("line too long after wrap: %q", line)
		}
	}
}

func TestNewStylesNoColor(t *testing.T) {
	var buf bytes.Buffer
	s := NewStyles(&buf, nil, true)
	if !s.Plain() {
		t.Fatal("expected plain styles")
	}
	if got := s.Command.Render("/help"); got != "/help" {
		t.Errorf("expected unstyled output, got %q", got)
	}
}

func TestWrapLine(t *testing.T) {
	tests := []struct {
		line  string
		width int
		want  []string
	}{
		{"short", 10, []string{"short"}},
		{"anything", 0, []string{"anything"}},
		{"alpha beta gamma", 12, []string{"alpha beta ", "  gamma"}},
		{"abcdefghij", 4, []string{"abcd", "  ef", "  gh", "  ij"}},
		{"日本語の文章", 5, []string{"日本", "  語", "  の", "  文", "  章"}},
	}
	for _, tt := range tests {
		got := WrapLine(tt.line, tt.width)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("WrapLine(%q, %d) = %q, want %q", tt.line, tt.width, got, tt.want)
		}
	}
}

func TestPresetThemeNamesCoverPresets(t *testing.T) {
	if len(PresetThemeNames) != len(PresetThemes) {
		t.Fatalf("%d names for %d presets", len(PresetThemeNames), len(PresetThemes))
	}
	for _, name := range PresetThemeNames {
		if GetPresetTheme(name) == nil {
			t.Errorf("preset %q listed but not defined", name)
		}
	}
}

func TestThemeFromConfigPreset(t *testing.T) {
	theme := ThemeFromConfig(ThemeConfig{Preset: "nord", Error: "#000000"})
	if theme.Primary != "#88c0d0" {
		t.Errorf("Primary = %q, want the nord color", theme.Primary)
	}
	if theme.Error != "#000000" {
		t.Errorf("Error = %q, override should win over the preset", theme.Error)
	}
	if theme.Border != "#81a1c1" {
		t.Errorf("Border = %q, should follow the preset secondary", theme.Border)
	}

	if err := ValidatePreset("nope"); err == nil {
		t.Error("expected an error for an unknown preset")
	}
	if err := ValidatePreset(""); err != nil {
		t.Errorf("empty preset: %v", err)
	}
}

func TestMatchPresetTheme(t *testing.T) {
	if got := MatchPresetTheme(ThemeConfig{Preset: "dracula"}); got != "dracula" {
		t.Errorf("MatchPresetTheme(dracula) = %q", got)
	}
	if got := MatchPresetTheme(PresetThemes["solarized"].Config); got != "solarized" {
		t.Errorf("MatchPresetTheme(solarized colors) = %q", got)
	}
	if got := MatchPresetTheme(ThemeConfig{Preset: "dracula", Primary: "#123456"}); got != "" {
		t.Errorf("customized theme matched %q", got)
	}
}
