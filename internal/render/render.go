// Package render draws classified blocks through one collaborator per
// block kind, skipping blocks whose identity did not change since the
// previous frame.
package render

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/samsaffron/msgblocks/internal/blocks"
)

// MarkdownRenderer draws markdown or plain text.
type MarkdownRenderer interface {
	RenderMarkdown(b *blocks.MarkdownText, width int) (string, error)
}

// CodeRenderer draws a fenced code block, partial or complete.
type CodeRenderer interface {
	RenderCode(b *blocks.FencedCode, width int) (string, error)
}

// HTMLRenderer draws a raw HTML document. Implementations decide how the
// document is contained; it is never executed here.
type HTMLRenderer interface {
	RenderHTML(b *blocks.DangerousHTML, width int) (string, error)
}

// ImageRenderer draws a single image reference.
type ImageRenderer interface {
	RenderImage(b *blocks.ImageReference, width int) (string, error)
}

// DiffRenderer draws a list of diff operations.
type DiffRenderer interface {
	RenderDiff(b *blocks.TextDiff, width int) (string, error)
}

// Collaborators holds the per-kind renderers. A nil slot falls back to the
// block's raw source text.
type Collaborators struct {
	Markdown MarkdownRenderer
	Code     CodeRenderer
	HTML     HTMLRenderer
	Image    ImageRenderer
	Diff     DiffRenderer
}

// Backend implements every collaborator.
type Backend interface {
	MarkdownRenderer
	CodeRenderer
	HTMLRenderer
	ImageRenderer
	DiffRenderer
}

// CollaboratorsFor fills every slot from one backend.
func CollaboratorsFor(b Backend) Collaborators {
	return Collaborators{Markdown: b, Code: b, HTML: b, Image: b, Diff: b}
}

// FrameStats describes the work done for one frame.
type FrameStats struct {
	Blocks   int // blocks in the frame
	Skipped  int // reused from the previous frame without rendering
	Rendered int // passed to a collaborator
}

// slot remembers what was drawn at one position.
type slot struct {
	block blocks.Block
	kind  blocks.Kind
	out   string
}

// Dispatcher renders block lists frame by frame. It is not safe for
// concurrent use; keep one per content stream.
type Dispatcher struct {
	collab    Collaborators
	width     int
	separator string
	logger    *slog.Logger
	slots     []slot
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSeparator sets the string placed between rendered blocks.
func WithSeparator(sep string) Option {
	return func(d *Dispatcher) { d.separator = sep }
}

// WithLogger sets the logger used for render failures.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a dispatcher drawing at the given width.
func NewDispatcher(c Collaborators, width int, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		collab:    c,
		width:     width,
		separator: "\n",
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Width returns the current render width.
func (d *Dispatcher) Width() int {
	return d.width
}

// Resize changes the render width. Every cached slot is invalidated when the
// width actually changes.
func (d *Dispatcher) Resize(width int) {
	if width == d.width {
		return
	}
	d.width = width
	d.slots = d.slots[:0]
}

// Reset drops all cached slots. Call it when switching content streams or
// when a collaborator's output would change for the same block.
func (d *Dispatcher) Reset() {
	d.slots = nil
}

// Render draws the block list. A slot is reused only when the block at that
// position is the same object as in the previous frame; equal content in a
// fresh object is rendered again.
func (d *Dispatcher) Render(bs []blocks.Block) (string, FrameStats) {
	stats := FrameStats{Blocks: len(bs)}
	next := make([]slot, len(bs))
	parts := make([]string, 0, len(bs))

	for i, b := range bs {
		if i < len(d.slots) && d.slots[i].block == b && d.slots[i].kind == b.Kind() {
			next[i] = d.slots[i]
			stats.Skipped++
		} else {
			next[i] = slot{block: b, kind: b.Kind(), out: d.renderBlock(i, b)}
			stats.Rendered++
		}
		if next[i].out != "" {
			parts = append(parts, next[i].out)
		}
	}

	d.slots = next
	return strings.Join(parts, d.separator), stats
}

func (d *Dispatcher) renderBlock(pos int, b blocks.Block) string {
	out, err := d.dispatch(b)
	if err != nil {
		d.logger.Debug("render failed, using raw text",
			"position", pos,
			"kind", b.Kind().String(),
			"error", err)
		return Raw(b)
	}
	return out
}

func (d *Dispatcher) dispatch(b blocks.Block) (string, error) {
	switch v := b.(type) {
	case *blocks.MarkdownText:
		if d.collab.Markdown != nil {
			return d.collab.Markdown.RenderMarkdown(v, d.width)
		}
	case *blocks.FencedCode:
		if d.collab.Code != nil {
			return d.collab.Code.RenderCode(v, d.width)
		}
	case *blocks.DangerousHTML:
		if d.collab.HTML != nil {
			return d.collab.HTML.RenderHTML(v, d.width)
		}
	case *blocks.ImageReference:
		if d.collab.Image != nil {
			return d.collab.Image.RenderImage(v, d.width)
		}
	case *blocks.TextDiff:
		if d.collab.Diff != nil {
			return d.collab.Diff.RenderDiff(v, d.width)
		}
	default:
		return "", fmt.Errorf("unknown block type %T", b)
	}
	return Raw(b), nil
}

// Raw returns a plain-text rendition of a block close to its source form.
func Raw(b blocks.Block) string {
	switch v := b.(type) {
	case *blocks.MarkdownText:
		return v.Content
	case *blocks.FencedCode:
		s := "```" + v.Title + "\n" + v.Code
		if !v.Partial {
			s += "\n```"
		}
		return s
	case *blocks.DangerousHTML:
		return v.HTML
	case *blocks.ImageReference:
		return "![" + v.Alt + "](" + v.URL + ")"
	case *blocks.TextDiff:
		var sb strings.Builder
		for _, op := range v.Ops {
			for line := range strings.Lines(op.Text) {
				switch op.Type {
				case blocks.DiffInsert:
					sb.WriteString("+")
				case blocks.DiffDelete:
					sb.WriteString("-")
				default:
					sb.WriteString(" ")
				}
				sb.WriteString(line)
			}
		}
		return strings.TrimSuffix(sb.String(), "\n")
	}
	return ""
}
