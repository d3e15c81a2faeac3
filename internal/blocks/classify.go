package blocks

import "strings"

const fence = "```"

// CodeOverride forces the whole text into a single FencedCode block.
type CodeOverride struct {
	Title string
}

// Options are the forced-mode overrides for Classify. At most one should be
// set; when several are, code wins over diff, and diff over markdown.
type Options struct {
	ForceCode     *CodeOverride
	ForceDiff     []DiffOp
	ForceMarkdown bool

	// Images overrides the recognized image extensions. Nil uses
	// DefaultImageExtensions.
	Images *ImageMatcher
}

// Classify splits text into an ordered, non-empty list of blocks.
//
// Fenced code spans are cut out in a single left-to-right scan; the text
// between them goes through the heuristic chain (raw HTML document, image
// lines, markdown). One line break on each side of a fence is consumed. A
// fence that is never closed produces a final partial FencedCode block.
func Classify(text string, role Role, opts Options) []Block {
	switch {
	case opts.ForceCode != nil:
		return []Block{&FencedCode{Title: opts.ForceCode.Title, Code: text}}
	case opts.ForceDiff != nil:
		return []Block{&TextDiff{Ops: opts.ForceDiff}}
	case opts.ForceMarkdown, role == RoleSystem:
		return []Block{&MarkdownText{Content: text}}
	}

	images := opts.Images
	if images == nil {
		images = defaultImageMatcher
	}

	var out []Block
	rest := text
	for {
		open := strings.Index(rest, fence)
		if open < 0 {
			out = appendSpan(out, rest, images)
			break
		}
		out = appendSpan(out, trimLineBreakSuffix(rest[:open]), images)

		code, remainder, closed := scanFence(rest[open+len(fence):])
		out = append(out, code)
		if !closed {
			break
		}
		rest = trimLineBreakPrefix(remainder)
	}

	if len(out) == 0 {
		return []Block{&MarkdownText{}}
	}
	return out
}

// scanFence parses the body following an opening fence. It returns the code
// block, the text after the closing fence and whether a closing fence exists.
func scanFence(s string) (*FencedCode, string, bool) {
	closeIdx := strings.Index(s, fence)
	nl := strings.IndexByte(s, '\n')

	// ```code``` on a single line has no title.
	if closeIdx >= 0 && (nl < 0 || closeIdx < nl) {
		return &FencedCode{Code: s[:closeIdx]}, s[closeIdx+len(fence):], true
	}
	if nl < 0 {
		return &FencedCode{Title: strings.TrimSpace(s), Partial: true}, "", false
	}

	title := strings.TrimSpace(s[:nl])
	body := s[nl+1:]
	closeIdx = strings.Index(body, fence)
	if closeIdx < 0 {
		return &FencedCode{Title: title, Code: body, Partial: true}, "", false
	}
	return &FencedCode{
		Title: title,
		Code:  trimLineBreakSuffix(body[:closeIdx]),
	}, body[closeIdx+len(fence):], true
}

// appendSpan classifies a non-code span. Empty spans produce nothing.
func appendSpan(out []Block, span string, images *ImageMatcher) []Block {
	if span == "" {
		return out
	}
	for _, h := range spanHeuristics {
		if h.match(span, images) {
			return append(out, h.build(span, images)...)
		}
	}
	return append(out, &MarkdownText{Content: span})
}

func trimLineBreakSuffix(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

func trimLineBreakPrefix(s string) string {
	if strings.HasPrefix(s, "\r\n") {
		return s[2:]
	}
	return strings.TrimPrefix(s, "\n")
}
