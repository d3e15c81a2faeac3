package render

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samsaffron/msgblocks/internal/blocks"
	"github.com/samsaffron/msgblocks/internal/image"
	"github.com/samsaffron/msgblocks/internal/ui"
)

func plainTerminal(opts TerminalOptions) *Terminal {
	opts.Styles = ui.NewStyles(io.Discard, nil, true)
	opts.MarkdownStyle = "notty"
	return NewTerminal(opts)
}

func TestTerminalMarkdown(t *testing.T) {
	term := plainTerminal(TerminalOptions{Commands: []string{"help"}})

	out, err := term.RenderMarkdown(&blocks.MarkdownText{Content: "some **bold** words"}, 80)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(ui.StripANSI(out), "bold") {
		t.Errorf("output lost text: %q", out)
	}

	out, _ = term.RenderMarkdown(&blocks.MarkdownText{Content: "/hlp"}, 80)
	if !strings.Contains(out, "/hlp") || !strings.Contains(out, "did you mean /help") {
		t.Errorf("unknown command not annotated: %q", out)
	}
}

func TestTerminalUserTextWraps(t *testing.T) {
	term := plainTerminal(TerminalOptions{UserText: true})
	out, err := term.RenderMarkdown(&blocks.MarkdownText{Content: strings.Repeat("word ", 20)}, 30)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if ui.CountLines(out) < 3 {
		t.Errorf("expected wrapped output, got %q", out)
	}
	if strings.Contains(out, "**") {
		t.Errorf("user text must not be markdown rendered: %q", out)
	}
}

func TestTerminalCode(t *testing.T) {
	term := plainTerminal(TerminalOptions{})

	out, _ := term.RenderCode(&blocks.FencedCode{Title: "go", Code: "x := 1"}, 80)
	if out != "go\nx := 1" {
		t.Errorf("complete code = %q", out)
	}

	out, _ = term.RenderCode(&blocks.FencedCode{Code: "x", Partial: true}, 80)
	if out != "code …\nx" {
		t.Errorf("partial code = %q", out)
	}
}

func TestTerminalHTMLRequiresConfirmation(t *testing.T) {
	doc := "<!DOCTYPE html>\n<html><head><title>Demo</title></head>\n<body>hi</body></html>"

	out, _ := plainTerminal(TerminalOptions{}).RenderHTML(&blocks.DangerousHTML{HTML: doc}, 60)
	if !strings.Contains(out, "HTML document: Demo") || strings.Contains(out, "<body>") {
		t.Errorf("unconfirmed HTML = %q", out)
	}

	asked := 0
	term := plainTerminal(TerminalOptions{ConfirmHTML: func(title string) bool {
		asked++
		return title == "Demo"
	}})
	for range 2 {
		out, _ = term.RenderHTML(&blocks.DangerousHTML{HTML: doc}, 60)
		if !strings.Contains(out, "<body>hi</body>") {
			t.Errorf("confirmed HTML = %q", out)
		}
	}
	if asked != 1 {
		t.Errorf("ConfirmHTML asked %d times, want 1", asked)
	}
}

func TestTerminalImage(t *testing.T) {
	term := plainTerminal(TerminalOptions{})
	out, _ := term.RenderImage(&blocks.ImageReference{URL: "https://x.test/a.png", Alt: "cat"}, 80)
	if out != "[cat] https://x.test/a.png" {
		t.Errorf("image line = %q", out)
	}

	// Remote URLs are never fetched, even with inline images enabled.
	term = plainTerminal(TerminalOptions{InlineImages: true, Capability: image.CapITerm})
	out, _ = term.RenderImage(&blocks.ImageReference{URL: "https://x.test/a.png"}, 80)
	if out != "[image] https://x.test/a.png" {
		t.Errorf("remote inline image = %q", out)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	term = plainTerminal(TerminalOptions{InlineImages: true, Capability: image.CapITerm, BaseDir: dir})
	out, _ = term.RenderImage(&blocks.ImageReference{URL: "broken.png"}, 80)
	if out != "[image] broken.png" {
		t.Errorf("undecodable image should fall back to text, got %q", out)
	}
}

func TestTerminalDiff(t *testing.T) {
	term := plainTerminal(TerminalOptions{})
	out, _ := term.RenderDiff(&blocks.TextDiff{Ops: []blocks.DiffOp{
		{Type: blocks.DiffEqual, Text: "same\n"},
		{Type: blocks.DiffDelete, Text: "old\n"},
		{Type: blocks.DiffInsert, Text: "new\n"},
	}}, 80)
	if want := "  same\n- old\n+ new"; out != want {
		t.Errorf("diff = %q, want %q", out, want)
	}
}

func TestTerminalDiffWrapsLongLines(t *testing.T) {
	term := plainTerminal(TerminalOptions{})
	out, _ := term.RenderDiff(&blocks.TextDiff{Ops: []blocks.DiffOp{
		{Type: blocks.DiffInsert, Text: "one two three four\n"},
	}}, 14)
	if want := "+ one two \n  three four"; out != want {
		t.Errorf("diff = %q, want %q", out, want)
	}
}

func TestHTMLExport(t *testing.T) {
	e := NewHTMLExport("github")
	d := NewDispatcher(CollaboratorsFor(e), 0)

	text := "# Title\n```go\nfmt.Println(\"<hi>\")\n```\n![logo](logo.png)"
	body, stats := d.Render(blocks.Classify(text, blocks.RoleAssistant, blocks.Options{}))
	if stats.Blocks != 3 {
		t.Fatalf("Blocks = %d, want 3", stats.Blocks)
	}
	for _, want := range []string{"<h1", "Title", `<figcaption>go</figcaption>`, "&lt;hi&gt;", `<img class="block image" src="logo.png" alt="logo">`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}

	page, err := e.Document("export", body)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if !strings.HasPrefix(page, "<!DOCTYPE html>") || !strings.Contains(page, "<title>export</title>") {
		t.Errorf("page header wrong:\n%s", page[:min(len(page), 200)])
	}
}

func TestHTMLExportSandboxesDocuments(t *testing.T) {
	e := NewHTMLExport("github")
	out, _ := e.RenderHTML(&blocks.DangerousHTML{HTML: `<html><title>T</title><script>alert("x")</script>`}, 0)
	if !strings.Contains(out, `sandbox=""`) || strings.Contains(out, "<script>") {
		t.Errorf("document not contained: %q", out)
	}
	if !strings.Contains(out, `title="T"`) {
		t.Errorf("title missing: %q", out)
	}

	out, _ = e.RenderDiff(&blocks.TextDiff{Ops: []blocks.DiffOp{
		{Type: blocks.DiffDelete, Text: "<a>\n"},
		{Type: blocks.DiffInsert, Text: "b\n"},
	}}, 0)
	if out != `<pre class="block diff"><del>&lt;a&gt;`+"\n"+`</del><ins>b`+"\n"+`</ins></pre>` {
		t.Errorf("diff = %q", out)
	}
}

func TestDocumentTitle(t *testing.T) {
	tests := []struct {
		doc  string
		want string
	}{
		{"<html><head><title> Hello &amp; bye </title></head>", "Hello & bye"},
		{"<!doctype html><head><title>Still stream", "Still stream"},
		{"<html><body>no title</body>", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DocumentTitle(tt.doc); got != tt.want {
			t.Errorf("DocumentTitle(%q) = %q, want %q", tt.doc, got, tt.want)
		}
	}
}
