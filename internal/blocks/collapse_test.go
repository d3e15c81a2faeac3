package blocks

import (
	"strings"
	"testing"
)

func TestCollapse(t *testing.T) {
	long := "1\n2\n3\n4\n5"
	tests := []struct {
		name          string
		text          string
		role          Role
		threshold     int
		forceExpanded bool
		want          Collapsed
	}{
		{"user over threshold", long, RoleUser, 3, false, Collapsed{Text: "1\n2\n3", IsCollapsed: true, HiddenLines: 2}},
		{"user at threshold", long, RoleUser, 5, false, Collapsed{Text: long}},
		{"trailing newline not a line", "1\n2\n3\n", RoleUser, 3, false, Collapsed{Text: "1\n2\n3\n"}},
		{"crlf", "a\r\nb\r\nc", RoleUser, 1, false, Collapsed{Text: "a", IsCollapsed: true, HiddenLines: 2}},
		{"force expanded", long, RoleUser, 3, true, Collapsed{Text: long}},
		{"assistant never collapsed", long, RoleAssistant, 3, false, Collapsed{Text: long}},
		{"system never collapsed", long, RoleSystem, 3, false, Collapsed{Text: long}},
		{"zero threshold disables", long, RoleUser, 0, false, Collapsed{Text: long}},
		{"empty", "", RoleUser, 1, false, Collapsed{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Collapse(tt.text, tt.role, tt.threshold, tt.forceExpanded)
			if got != tt.want {
				t.Errorf("Collapse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCollapseToggleIsIdempotent(t *testing.T) {
	text := strings.Repeat("line\n", 20)
	orig := strings.Clone(text)
	for range 3 {
		Collapse(text, RoleUser, 5, false)
		expanded := Collapse(text, RoleUser, 5, true)
		if expanded.Text != orig || expanded.IsCollapsed {
			t.Fatal("expanding must return the original text")
		}
	}
	a := Collapse(text, RoleUser, 5, false)
	b := Collapse(text, RoleUser, 5, false)
	if a != b {
		t.Errorf("repeated collapse differs: %+v vs %+v", a, b)
	}
	if text != orig {
		t.Error("collapse mutated the input")
	}
}
