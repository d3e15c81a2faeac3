package blocks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// heuristic is one entry of the span classification chain. Entries are
// tried in order; a span that matches none becomes MarkdownText.
type heuristic struct {
	name  string
	match func(span string, images *ImageMatcher) bool
	build func(span string, images *ImageMatcher) []Block
}

var spanHeuristics = []heuristic{
	{name: "html-document", match: isHTMLDocument, build: buildHTMLDocument},
	{name: "image-lines", match: isImageLines, build: buildImageLines},
}

// htmlDocumentMarkers are matched case-insensitively against the very start
// of a span. Leading whitespace or comments defeat the check on purpose.
var htmlDocumentMarkers = []string{
	"<!doctype html",
	"<html",
	"<head",
}

func isHTMLDocument(span string, _ *ImageMatcher) bool {
	for _, m := range htmlDocumentMarkers {
		if len(span) >= len(m) && strings.EqualFold(span[:len(m)], m) {
			return true
		}
	}
	return false
}

func buildHTMLDocument(span string, _ *ImageMatcher) []Block {
	return []Block{&DangerousHTML{HTML: span}}
}

// imageLineRe matches ![alt](url) with an optional "title".
var imageLineRe = regexp.MustCompile(`^!\[([^\]]*)\]\(\s*<?([^\s<>()]+)>?(?:\s+"[^"]*")?\s*\)$`)

// DefaultImageExtensions are the URL extensions recognized as images.
var DefaultImageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp", "svg", "bmp", "avif", "ico"}

// ImageMatcher decides whether a URL points at an image by its extension.
type ImageMatcher struct {
	g glob.Glob
}

// NewImageMatcher compiles a matcher for the given extensions (without dots).
func NewImageMatcher(exts []string) (*ImageMatcher, error) {
	if len(exts) == 0 {
		return nil, fmt.Errorf("no image extensions")
	}
	lowered := make([]string, len(exts))
	for i, e := range exts {
		lowered[i] = strings.ToLower(strings.TrimPrefix(e, "."))
	}
	g, err := glob.Compile("*.{" + strings.Join(lowered, ",") + "}")
	if err != nil {
		return nil, fmt.Errorf("compile image extension glob: %w", err)
	}
	return &ImageMatcher{g: g}, nil
}

var defaultImageMatcher = func() *ImageMatcher {
	m, err := NewImageMatcher(DefaultImageExtensions)
	if err != nil {
		panic(err)
	}
	return m
}()

// Match reports whether url ends in a recognized image extension. Query
// strings and fragments are ignored.
func (m *ImageMatcher) Match(url string) bool {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return m.g.Match(strings.ToLower(url))
}

// parseImageLine parses a single trimmed, non-blank line.
func parseImageLine(line string, m *ImageMatcher) (*ImageReference, bool) {
	sub := imageLineRe.FindStringSubmatch(line)
	if sub == nil || !m.Match(sub[2]) {
		return nil, false
	}
	return &ImageReference{URL: sub[2], Alt: sub[1]}, true
}

func isImageLines(span string, images *ImageMatcher) bool {
	seen := false
	for line := range strings.Lines(span) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, ok := parseImageLine(line, images); !ok {
			return false
		}
		seen = true
	}
	return seen
}

func buildImageLines(span string, images *ImageMatcher) []Block {
	var out []Block
	for line := range strings.Lines(span) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if img, ok := parseImageLine(line, images); ok {
			out = append(out, img)
		}
	}
	return out
}
