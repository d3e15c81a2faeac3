package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"

	"github.com/samsaffron/msgblocks/internal/blocks"
	"github.com/samsaffron/msgblocks/internal/ui"
)

// exportMarkdown is a shared goldmark instance. Raw HTML inside markdown is
// omitted by goldmark's default renderer.
var exportMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// HTMLExport renders blocks as fragments of a static HTML page. Raw HTML
// documents are placed in a sandboxed iframe and never inlined.
type HTMLExport struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

var _ Backend = (*HTMLExport)(nil)

// NewHTMLExport creates an HTML backend using the named chroma style.
func NewHTMLExport(codeStyle string) *HTMLExport {
	style := styles.Get(codeStyle)
	if style == nil {
		style = styles.Fallback
	}
	return &HTMLExport{
		style:     style,
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// RenderMarkdown converts markdown to HTML.
func (e *HTMLExport) RenderMarkdown(b *blocks.MarkdownText, _ int) (string, error) {
	if strings.TrimSpace(b.Content) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := exportMarkdown.Convert([]byte(b.Content), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return `<div class="block markdown">` + buf.String() + `</div>`, nil
}

// RenderCode highlights code with chroma's class-based HTML formatter.
func (e *HTMLExport) RenderCode(b *blocks.FencedCode, _ int) (string, error) {
	lexer := ui.LexerFor(b.Title)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, b.Code)
	if err != nil {
		return "", fmt.Errorf("tokenise %q: %w", b.Title, err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<figure class="block code" data-partial="%t">`, b.Partial)
	if b.Title != "" {
		fmt.Fprintf(&buf, `<figcaption>%s</figcaption>`, html.EscapeString(b.Title))
	}
	if err := e.formatter.Format(&buf, e.style, iterator); err != nil {
		return "", fmt.Errorf("format code: %w", err)
	}
	buf.WriteString(`</figure>`)
	return buf.String(), nil
}

// RenderHTML embeds the document as the srcdoc of a script-less sandboxed
// iframe.
func (e *HTMLExport) RenderHTML(b *blocks.DangerousHTML, _ int) (string, error) {
	title := DocumentTitle(b.HTML)
	if title == "" {
		title = "HTML document"
	}
	return fmt.Sprintf(`<iframe class="block html" sandbox="" title="%s" srcdoc="%s"></iframe>`,
		html.EscapeString(title), html.EscapeString(b.HTML)), nil
}

// RenderImage emits an img tag.
func (e *HTMLExport) RenderImage(b *blocks.ImageReference, _ int) (string, error) {
	return fmt.Sprintf(`<img class="block image" src="%s" alt="%s">`,
		html.EscapeString(b.URL), html.EscapeString(b.Alt)), nil
}

// RenderDiff emits a pre block with ins and del spans.
func (e *HTMLExport) RenderDiff(b *blocks.TextDiff, _ int) (string, error) {
	var sb strings.Builder
	sb.WriteString(`<pre class="block diff">`)
	for _, op := range b.Ops {
		text := html.EscapeString(op.Text)
		switch op.Type {
		case blocks.DiffInsert:
			sb.WriteString("<ins>" + text + "</ins>")
		case blocks.DiffDelete:
			sb.WriteString("<del>" + text + "</del>")
		default:
			sb.WriteString(text)
		}
	}
	sb.WriteString(`</pre>`)
	return sb.String(), nil
}

// Document wraps rendered fragments into a complete page carrying the code
// style sheet.
func (e *HTMLExport) Document(title, body string) (string, error) {
	var css bytes.Buffer
	if err := e.formatter.WriteCSS(&css, e.style); err != nil {
		return "", fmt.Errorf("write css: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(title))
	sb.WriteString("<style>\n")
	sb.WriteString("iframe.block.html { width: 100%; min-height: 20em; border: 1px solid #ccc; }\n")
	sb.WriteString("pre.block.diff ins { background: #e6ffec; text-decoration: none; }\n")
	sb.WriteString("pre.block.diff del { background: #ffebe9; }\n")
	sb.WriteString(css.String())
	sb.WriteString("</style>\n</head>\n<body>\n")
	sb.WriteString(body)
	sb.WriteString("\n</body>\n</html>\n")
	return sb.String(), nil
}

// DocumentTitle returns the text of the first <title> element, or "".
// Unterminated documents are handled; the title may still be partial.
func DocumentTitle(doc string) string {
	z := html.NewTokenizer(strings.NewReader(doc))
	inTitle := false
	var sb strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(sb.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "title" && inTitle {
				return strings.TrimSpace(sb.String())
			}
		case html.TextToken:
			if inTitle {
				sb.Write(z.Text())
			}
		}
	}
}
