package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownStyleTheme renders markdown with the active theme instead of one
// of glamour's standard styles.
const MarkdownStyleTheme = "theme"

type rendererKey struct {
	width int
	style string
	theme *Theme
}

// rendererCache provides width- and style-keyed caching of glamour renderers.
// Creating a renderer is expensive; caching avoids recreation.
var rendererCache sync.Map // map[rendererKey]*glamour.TermRenderer

// sharedDefaultTheme keeps the cache key stable when no theme is given.
var sharedDefaultTheme = DefaultTheme()

// getRenderer returns a cached renderer, creating one if needed.
func getRenderer(width int, style string, theme *Theme) (*glamour.TermRenderer, error) {
	themed := style == MarkdownStyleTheme || style == ""
	if themed && theme == nil {
		theme = sharedDefaultTheme
	}
	key := rendererKey{width: width, style: style}
	if themed {
		key.theme = theme
	}
	if cached, ok := rendererCache.Load(key); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if themed {
		opts = append(opts, glamour.WithStyles(GlamourStyleFromTheme(theme)))
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}

	// Race-safe: if another goroutine stored first, we just discard ours
	actual, _ := rendererCache.LoadOrStore(key, renderer)
	return actual.(*glamour.TermRenderer), nil
}

// RenderMarkdown renders markdown content using glamour.
// On error, returns the original content unchanged.
func RenderMarkdown(content string, width int, style string, theme *Theme) string {
	if content == "" {
		return ""
	}

	rendered, err := RenderMarkdownWithError(content, width, style, theme)
	if err != nil {
		return content
	}
	return rendered
}

// RenderMarkdownWithError renders markdown content and returns any errors.
func RenderMarkdownWithError(content string, width int, style string, theme *Theme) (string, error) {
	renderer, err := getRenderer(width, style, theme)
	if err != nil {
		return "", err
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return "", err
	}

	return strings.Trim(rendered, "\n"), nil
}
