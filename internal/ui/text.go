package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

// WrapText word-wraps plain text to width. Widths below 20 are raised to 20.
func WrapText(text string, width int) string {
	if width < 20 {
		width = 20
	}
	return wordwrap.String(text, width)
}

// Truncate shortens s to at most width display cells, adding an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// VisibleWidth returns the widest line of s in cells, ignoring escape codes.
func VisibleWidth(s string) int {
	widest := 0
	for line := range strings.Lines(s) {
		if w := ansi.StringWidth(strings.TrimRight(line, "\n")); w > widest {
			widest = w
		}
	}
	return widest
}

// StripANSI removes all escape sequences from s.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// CountLines counts display lines of s; a trailing newline does not start
// a new line.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// TruncateStyled shortens s to width display cells while keeping its escape
// sequences intact.
func TruncateStyled(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// WrapLine hard-wraps a single plain line to maxWidth cells, preferring to
// break after a space or punctuation in the second half of the line.
// Continuation lines are indented by two spaces.
func WrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 || runewidth.StringWidth(line) <= maxWidth {
		return []string{line}
	}

	var out []string
	rest := line
	for first := true; rest != ""; first = false {
		width, indent := maxWidth, ""
		if !first {
			width, indent = max(maxWidth-2, 1), "  "
		}
		if runewidth.StringWidth(rest) <= width {
			out = append(out, indent+rest)
			break
		}
		var segment string
		segment, rest = splitPreferBreak(rest, width)
		out = append(out, indent+segment)
	}
	return out
}

// splitPreferBreak splits s at about width cells. A break character in the
// second half wins over a hard break; at least one rune is always taken.
func splitPreferBreak(s string, width int) (before, after string) {
	col := 0
	breakCol, breakByte := -1, -1
	for i, r := range s {
		w := runewidth.RuneWidth(r)
		if col+w > width {
			if breakByte > 0 && breakCol > width/2 {
				return s[:breakByte], s[breakByte:]
			}
			if i == 0 {
				_, size := utf8.DecodeRuneInString(s)
				return s[:size], s[size:]
			}
			return s[:i], s[i:]
		}
		col += w
		if strings.ContainsRune(" ,;.)}", r) {
			breakCol, breakByte = col, i+utf8.RuneLen(r)
		}
	}
	return s, ""
}
