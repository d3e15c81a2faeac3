package blocks

import "strings"

// Collapsed is the display form of a possibly truncated text.
type Collapsed struct {
	Text        string
	IsCollapsed bool
	HiddenLines int
}

// Collapse truncates user-authored text longer than lineThreshold lines to
// its first lineThreshold lines. Other roles, non-positive thresholds and
// forceExpanded all return the text unchanged. A trailing newline does not
// count as an extra line.
func Collapse(text string, role Role, lineThreshold int, forceExpanded bool) Collapsed {
	if role != RoleUser || lineThreshold <= 0 || forceExpanded {
		return Collapsed{Text: text}
	}

	total := lineCount(text)
	if total <= lineThreshold {
		return Collapsed{Text: text}
	}

	end := 0
	for range lineThreshold {
		end += strings.IndexByte(text[end:], '\n') + 1
	}
	return Collapsed{
		Text:        strings.TrimSuffix(text[:end-1], "\r"),
		IsCollapsed: true,
		HiddenLines: total - lineThreshold,
	}
}

func lineCount(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
