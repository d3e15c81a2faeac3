package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/samsaffron/msgblocks/internal/blocks"
)

// countingBackend records every render call and prefixes output with the kind.
type countingBackend struct {
	calls int
	fail  bool
}

func (c *countingBackend) out(kind, s string) (string, error) {
	c.calls++
	if c.fail {
		return "", errors.New("boom")
	}
	return kind + ":" + s, nil
}

func (c *countingBackend) RenderMarkdown(b *blocks.MarkdownText, _ int) (string, error) {
	return c.out("md", b.Content)
}

func (c *countingBackend) RenderCode(b *blocks.FencedCode, _ int) (string, error) {
	return c.out("code", b.Code)
}

func (c *countingBackend) RenderHTML(b *blocks.DangerousHTML, _ int) (string, error) {
	return c.out("html", b.HTML)
}

func (c *countingBackend) RenderImage(b *blocks.ImageReference, _ int) (string, error) {
	return c.out("img", b.URL)
}

func (c *countingBackend) RenderDiff(b *blocks.TextDiff, _ int) (string, error) {
	return c.out("diff", Raw(b))
}

func TestDispatcherSkipsReusedBlocks(t *testing.T) {
	backend := &countingBackend{}
	d := NewDispatcher(CollaboratorsFor(backend), 80)
	var s blocks.Stream

	text := "intro\n```go\nx := 1\n```\ntail"
	_, stats := d.Render(s.Classify(text[:20], blocks.RoleAssistant, blocks.Options{}))
	if stats.Rendered != stats.Blocks || stats.Skipped != 0 {
		t.Fatalf("first frame stats = %+v", stats)
	}

	out, stats := d.Render(s.Classify(text, blocks.RoleAssistant, blocks.Options{}))
	if stats.Blocks != 3 {
		t.Fatalf("Blocks = %d, want 3", stats.Blocks)
	}
	if stats.Skipped != 1 || stats.Rendered != 2 {
		t.Errorf("stats = %+v, want intro skipped and two rendered", stats)
	}
	want := "md:intro\ncode:x := 1\nmd:tail"
	if out != want {
		t.Errorf("frame = %q, want %q", out, want)
	}

	calls := backend.calls
	_, stats = d.Render(s.Classify(text, blocks.RoleAssistant, blocks.Options{}))
	if stats.Skipped != 3 || backend.calls != calls {
		t.Errorf("unchanged text re-rendered: stats = %+v, calls %d -> %d", stats, calls, backend.calls)
	}
}

func TestDispatcherRendersEqualButFreshBlocks(t *testing.T) {
	backend := &countingBackend{}
	d := NewDispatcher(CollaboratorsFor(backend), 80)

	d.Render([]blocks.Block{&blocks.MarkdownText{Content: "a"}})
	_, stats := d.Render([]blocks.Block{&blocks.MarkdownText{Content: "a"}})
	if stats.Rendered != 1 {
		t.Errorf("fresh object with equal content should render, stats = %+v", stats)
	}
}

func TestDispatcherDiffAlwaysRendersWhenRecycled(t *testing.T) {
	backend := &countingBackend{}
	d := NewDispatcher(CollaboratorsFor(backend), 80)
	var s blocks.Stream
	ops := []blocks.DiffOp{{Type: blocks.DiffInsert, Text: "x\n"}}

	for range 3 {
		_, stats := d.Render(s.Classify("x", blocks.RoleAssistant, blocks.Options{ForceDiff: ops}))
		if stats.Rendered != 1 {
			t.Fatalf("diff block must render every frame, stats = %+v", stats)
		}
	}
}

func TestDispatcherResizeAndReset(t *testing.T) {
	backend := &countingBackend{}
	d := NewDispatcher(CollaboratorsFor(backend), 80)
	bs := []blocks.Block{&blocks.MarkdownText{Content: "a"}, &blocks.FencedCode{Code: "b"}}

	d.Render(bs)
	d.Resize(80)
	if _, stats := d.Render(bs); stats.Skipped != 2 {
		t.Errorf("same width should keep slots, stats = %+v", stats)
	}

	d.Resize(40)
	if d.Width() != 40 {
		t.Errorf("Width() = %d, want 40", d.Width())
	}
	if _, stats := d.Render(bs); stats.Rendered != 2 {
		t.Errorf("resize should invalidate slots, stats = %+v", stats)
	}

	d.Reset()
	if _, stats := d.Render(bs); stats.Rendered != 2 {
		t.Errorf("reset should invalidate slots, stats = %+v", stats)
	}
}

func TestDispatcherFallsBackToRaw(t *testing.T) {
	d := NewDispatcher(CollaboratorsFor(&countingBackend{fail: true}), 80, WithSeparator("|"))
	out, _ := d.Render([]blocks.Block{
		&blocks.MarkdownText{Content: "hi"},
		&blocks.FencedCode{Title: "go", Code: "x", Partial: true},
	})
	if want := "hi|```go\nx"; out != want {
		t.Errorf("frame = %q, want %q", out, want)
	}

	empty := NewDispatcher(Collaborators{}, 80)
	out, stats := empty.Render([]blocks.Block{&blocks.ImageReference{URL: "a.png", Alt: "A"}})
	if out != "![A](a.png)" || stats.Rendered != 1 {
		t.Errorf("nil collaborator: frame = %q, stats = %+v", out, stats)
	}
}

func TestRaw(t *testing.T) {
	tests := []struct {
		name  string
		block blocks.Block
		want  string
	}{
		{"markdown", &blocks.MarkdownText{Content: "# hi"}, "# hi"},
		{"code", &blocks.FencedCode{Title: "sh", Code: "ls"}, "```sh\nls\n```"},
		{"partial code", &blocks.FencedCode{Title: "sh", Code: "ls", Partial: true}, "```sh\nls"},
		{"html", &blocks.DangerousHTML{HTML: "<html>"}, "<html>"},
		{"image", &blocks.ImageReference{URL: "a.png"}, "![](a.png)"},
		{"diff", &blocks.TextDiff{Ops: []blocks.DiffOp{
			{Type: blocks.DiffEqual, Text: "a\n"},
			{Type: blocks.DiffDelete, Text: "b\n"},
			{Type: blocks.DiffInsert, Text: "c\n"},
		}}, " a\n-b\n+c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Raw(tt.block); got != tt.want {
				t.Errorf("Raw() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputCache(t *testing.T) {
	c := NewOutputCache(2)
	c.Put("a", "1")
	c.Put("b", "2")
	c.Get("a")
	c.Put("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("'b' should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
	c.Put("a", "updated")
	if v, _ := c.Get("a"); v != "updated" {
		t.Errorf("Get(a) after update = %q", v)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
}

func TestSplitCommand(t *testing.T) {
	known := []string{"help", "/model", "clear"}
	tests := []struct {
		text    string
		command string
		rest    string
		known   bool
		suggest string
	}{
		{"hello", "", "hello", false, ""},
		{"/help me", "help", " me", true, ""},
		{"/MODEL", "MODEL", "", true, ""},
		{"/hlp now", "hlp", " now", false, "help"},
		{"/usr/bin/env", "", "/usr/bin/env", false, ""},
		{"/ spaced", "", "/ spaced", false, ""},
		{"/zzz", "zzz", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := SplitCommand(tt.text, known)
			if got.Command != tt.command || got.Rest != tt.rest || got.Known != tt.known {
				t.Errorf("SplitCommand(%q) = %+v", tt.text, got)
			}
			first := ""
			if len(got.Suggestions) > 0 {
				first = got.Suggestions[0]
			}
			if first != tt.suggest {
				t.Errorf("first suggestion = %q, want %q", first, tt.suggest)
			}
		})
	}
}

func TestSuggestCommandsPrefixFallback(t *testing.T) {
	got := SuggestCommands("", []string{"/a", "b"})
	if strings.Join(got, ",") != "a,b" {
		t.Errorf("empty query = %v", got)
	}
}
