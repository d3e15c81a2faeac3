package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter handles syntax highlighting for code blocks
type Highlighter struct {
	lexer chroma.Lexer
	style *chroma.Style
}

// LexerFor resolves a fence title to a lexer. The title may be a language
// name ("go"), an alias ("js") or a file name ("main.go"). Returns nil when
// nothing matches.
func LexerFor(title string) chroma.Lexer {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	// Titles such as "python title=demo.py" carry extra attributes.
	if i := strings.IndexAny(title, " \t{"); i > 0 {
		title = title[:i]
	}
	if l := lexers.Get(title); l != nil {
		return l
	}
	return lexers.Match(title)
}

// NewHighlighter creates a highlighter for the given fence title.
// Returns nil if the language is not recognized.
func NewHighlighter(title, styleName string) *Highlighter {
	lexer := LexerFor(title)
	if lexer == nil {
		return nil
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	return &Highlighter{
		lexer: lexer,
		style: style,
	}
}

// Highlight applies syntax highlighting to code without a background color.
// Escape sequences never span a line break.
func (h *Highlighter) Highlight(code string) string {
	if h == nil {
		return code
	}

	iterator, err := h.lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	formatter := &noBgFormatter{style: h.style}
	if err := formatter.Format(&buf, iterator); err != nil {
		return code
	}

	return buf.String()
}

// noBgFormatter is a Chroma formatter that applies only foreground colors
type noBgFormatter struct {
	style *chroma.Style
}

func (f *noBgFormatter) Format(w io.Writer, iterator chroma.Iterator) error {
	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := f.style.Get(token.Type)

		var codes []string
		if entry.Colour.IsSet() {
			codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue()))
		}
		if entry.Bold == chroma.Yes {
			codes = append(codes, "1")
		}
		if entry.Italic == chroma.Yes {
			codes = append(codes, "3")
		}
		if entry.Underline == chroma.Yes {
			codes = append(codes, "4")
		}

		// Style each line of the token separately.
		for i, part := range strings.Split(token.Value, "\n") {
			if i > 0 {
				fmt.Fprint(w, "\n")
			}
			if part == "" {
				continue
			}
			if len(codes) > 0 {
				fmt.Fprintf(w, "\x1b[%sm%s\x1b[0m", strings.Join(codes, ";"), part)
			} else {
				fmt.Fprint(w, part)
			}
		}
	}
	return nil
}
