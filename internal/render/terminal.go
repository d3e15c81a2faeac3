package render

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/samsaffron/msgblocks/internal/blocks"
	"github.com/samsaffron/msgblocks/internal/image"
	"github.com/samsaffron/msgblocks/internal/ui"
)

// cellPixels approximates the pixel width of one terminal cell when sizing
// inline images.
const cellPixels = 8

// TerminalOptions configures the terminal backend.
type TerminalOptions struct {
	Styles        *ui.Styles
	MarkdownStyle string // glamour style name, or ui.MarkdownStyleTheme
	CodeStyle     string // chroma style name

	// UserText draws markdown blocks as wrapped plain text, the way
	// user-authored messages are shown.
	UserText bool

	// Commands are the known slash commands highlighted at the start of a
	// markdown block.
	Commands []string

	// ConfirmHTML is asked once per document title before raw HTML source
	// is shown. A nil func never shows it.
	ConfirmHTML func(title string) bool

	InlineImages bool
	Capability   image.Capability
	BaseDir      string // resolves relative image paths

	Logger *slog.Logger
}

// Terminal renders blocks as styled terminal text.
type Terminal struct {
	opts   TerminalOptions
	images *OutputCache

	mu        sync.Mutex
	decisions map[string]bool
}

var _ Backend = (*Terminal)(nil)

// NewTerminal creates a terminal backend.
func NewTerminal(opts TerminalOptions) *Terminal {
	if opts.Styles == nil {
		opts.Styles = ui.NewStyles(io.Discard, nil, true)
	}
	if opts.CodeStyle == "" {
		opts.CodeStyle = "monokai"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Terminal{
		opts:      opts,
		images:    NewOutputCache(32),
		decisions: make(map[string]bool),
	}
}

// RenderMarkdown draws markdown through glamour, or as wrapped plain text for
// user text. A leading slash command is drawn in the command style.
func (t *Terminal) RenderMarkdown(b *blocks.MarkdownText, width int) (string, error) {
	s := t.opts.Styles
	text := b.Content

	var header string
	if len(t.opts.Commands) > 0 {
		split := SplitCommand(text, t.opts.Commands)
		if split.Command != "" {
			header = s.Command.Render("/" + split.Command)
			if !split.Known && len(split.Suggestions) > 0 {
				header += s.Muted.Render(fmt.Sprintf("  unknown command, did you mean /%s?", split.Suggestions[0]))
			}
			text = strings.TrimSpace(split.Rest)
		}
	}

	var body string
	if t.opts.UserText {
		if text != "" {
			body = s.UserText.Render(ui.WrapText(text, width))
		}
	} else if strings.TrimSpace(text) != "" {
		out, err := ui.RenderMarkdownWithError(text, width, t.opts.MarkdownStyle, s.Theme())
		if err != nil {
			return "", err
		}
		body = out
	}

	switch {
	case header == "":
		return body, nil
	case body == "":
		return header, nil
	default:
		return header + "\n" + body, nil
	}
}

// RenderCode draws a titled, highlighted code block. Unknown titles are shown
// without highlighting.
func (t *Terminal) RenderCode(b *blocks.FencedCode, width int) (string, error) {
	s := t.opts.Styles

	title := b.Title
	if title == "" {
		title = "code"
	}
	header := s.CodeHeader.Render(ui.Truncate(title, max(width-2, 1)))
	if b.Partial {
		header += s.Muted.Render(" …")
	}

	code := b.Code
	if !s.Plain() {
		if h := ui.NewHighlighter(b.Title, t.opts.CodeStyle); h != nil {
			code = h.Highlight(code)
		}
	}
	if code == "" {
		return header, nil
	}
	return header + "\n" + code, nil
}

// RenderHTML shows a notice naming the document. Its source is shown, as
// highlighted text, only after ConfirmHTML allows it.
func (t *Terminal) RenderHTML(b *blocks.DangerousHTML, width int) (string, error) {
	s := t.opts.Styles
	title := DocumentTitle(b.HTML)

	if t.allowHTML(title) {
		code := b.HTML
		if !s.Plain() {
			code = ui.NewHighlighter("html", t.opts.CodeStyle).Highlight(code)
		}
		return s.CodeHeader.Render("html") + "\n" + code, nil
	}

	label := "HTML document"
	if title != "" {
		label += ": " + title
	}
	notice := ui.Truncate(label, max(width-4, 1)) + "\n" +
		fmt.Sprintf("%d lines not shown", ui.CountLines(b.HTML))
	return s.HTMLNotice.Render(notice), nil
}

func (t *Terminal) allowHTML(title string) bool {
	if t.opts.ConfirmHTML == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if ok, asked := t.decisions[title]; asked {
		return ok
	}
	ok := t.opts.ConfirmHTML(title)
	t.decisions[title] = ok
	return ok
}

// RenderImage draws local images inline when the terminal supports it and
// otherwise a one-line reference.
func (t *Terminal) RenderImage(b *blocks.ImageReference, width int) (string, error) {
	if t.opts.InlineImages && t.opts.Capability != image.CapNone {
		if out, ok := t.inlineImage(b.URL, width); ok {
			return out, nil
		}
	}

	s := t.opts.Styles
	label := b.Alt
	if label == "" {
		label = "image"
	}
	line := s.ImageLine.Render("[" + label + "]")
	if rest := width - ui.VisibleWidth(line) - 1; rest > 0 {
		line += " " + s.Muted.Render(ui.Truncate(b.URL, rest))
	}
	return line, nil
}

func (t *Terminal) inlineImage(url string, width int) (string, bool) {
	path, ok := image.LocalPath(url, t.opts.BaseDir)
	if !ok {
		return "", false
	}

	key := fmt.Sprintf("%s@%d", path, width)
	if out, ok := t.images.Get(key); ok {
		return out, true
	}

	out, err := image.Render(path, t.opts.Capability, width*cellPixels)
	if err != nil {
		t.opts.Logger.Debug("inline image failed", "path", path, "error", err)
		return "", false
	}
	t.images.Put(key, out)
	return out, true
}

// RenderDiff draws one line per diff line with +/- markers. Long lines wrap
// under their marker.
func (t *Terminal) RenderDiff(b *blocks.TextDiff, width int) (string, error) {
	s := t.opts.Styles

	var lines []string
	for _, op := range b.Ops {
		marker, style := " ", s.DiffContext
		switch op.Type {
		case blocks.DiffInsert:
			marker, style = "+", s.DiffAdd
		case blocks.DiffDelete:
			marker, style = "-", s.DiffRemove
		}
		for line := range strings.Lines(op.Text) {
			line = strings.TrimRight(line, "\r\n")
			for i, segment := range ui.WrapLine(line, max(width-2, 1)) {
				prefix := marker + " "
				if i > 0 {
					prefix = "  "
				}
				lines = append(lines, style.Render(prefix+segment))
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

// ClearImages drops cached inline image encodings.
func (t *Terminal) ClearImages() {
	t.images.Clear()
}
