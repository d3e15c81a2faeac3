package blocks

import "testing"

func TestEqual(t *testing.T) {
	ops := []DiffOp{{Type: DiffEqual, Text: "same"}}
	tests := []struct {
		name string
		a, b Block
		want bool
	}{
		{"markdown same", &MarkdownText{Content: "x"}, &MarkdownText{Content: "x"}, true},
		{"markdown differs", &MarkdownText{Content: "x"}, &MarkdownText{Content: "y"}, false},
		{"code same", &FencedCode{Title: "go", Code: "a"}, &FencedCode{Title: "go", Code: "a"}, true},
		{"code title differs", &FencedCode{Title: "go", Code: "a"}, &FencedCode{Title: "js", Code: "a"}, false},
		{"code body differs", &FencedCode{Title: "go", Code: "a"}, &FencedCode{Title: "go", Code: "b"}, false},
		{"code partial differs", &FencedCode{Code: "a", Partial: true}, &FencedCode{Code: "a"}, false},
		{"html same", &DangerousHTML{HTML: "<p>"}, &DangerousHTML{HTML: "<p>"}, true},
		{"html differs", &DangerousHTML{HTML: "<p>"}, &DangerousHTML{HTML: "<b>"}, false},
		{"image same", &ImageReference{URL: "a.png", Alt: "a"}, &ImageReference{URL: "a.png", Alt: "a"}, true},
		{"image alt differs", &ImageReference{URL: "a.png", Alt: "a"}, &ImageReference{URL: "a.png"}, false},
		{"image url differs", &ImageReference{URL: "a.png"}, &ImageReference{URL: "b.png"}, false},
		{"diff never equal", &TextDiff{Ops: ops}, &TextDiff{Ops: ops}, false},
		{"kinds differ", &MarkdownText{Content: "x"}, &DangerousHTML{HTML: "x"}, false},
		{"nil", nil, &MarkdownText{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			if got := Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqualDiffWithItself(t *testing.T) {
	d := &TextDiff{}
	if Equal(d, d) {
		t.Error("a diff block must not be equal even to itself")
	}
}
