// Package textdiff computes line diff operations for TextDiff blocks.
package textdiff

import (
	"regexp"
	"strconv"
	"strings"

	diff "github.com/shogoki/gotextdiff"

	"github.com/samsaffron/msgblocks/internal/blocks"
)

// hunkRe parses a unified hunk header: @@ -start,count +start,count @@
var hunkRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Compute returns the line diff between oldText and newText as a sequence of
// equal, delete and insert operations covering both texts completely.
// Adjacent operations of the same type are merged.
func Compute(oldText, newText string) []blocks.DiffOp {
	if oldText == newText {
		if oldText == "" {
			return nil
		}
		return []blocks.DiffOp{{Type: blocks.DiffEqual, Text: oldText}}
	}

	unified := diff.Diff("old", []byte(oldText), "new", []byte(newText))
	oldLines := splitLines(oldText)

	var b opBuilder
	next := 0 // index of the next unconsumed old line

	inHunk := false
	for _, line := range strings.SplitAfter(string(unified), "\n") {
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "@@"):
			m := hunkRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			inHunk = true
			start, _ := strconv.Atoi(m[1])
			upto := start - 1
			if m[2] == "0" {
				// Pure insertion after line `start`.
				upto = start
			}
			for ; next < upto && next < len(oldLines); next++ {
				b.add(blocks.DiffEqual, oldLines[next])
			}
		case !inHunk:
			// File headers before the first hunk.
			continue
		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file" applies to the previous line.
			b.trimNewline()
		default:
			// Old-side lines come from oldText so their endings survive.
			switch line[0] {
			case ' ':
				b.add(blocks.DiffEqual, oldLine(oldLines, next, line))
				next++
			case '-':
				b.add(blocks.DiffDelete, oldLine(oldLines, next, line))
				next++
			case '+':
				b.add(blocks.DiffInsert, line[1:])
			}
		}
	}
	for ; next < len(oldLines); next++ {
		b.add(blocks.DiffEqual, oldLines[next])
	}
	return b.ops
}

// Stats counts inserted and deleted lines.
func Stats(ops []blocks.DiffOp) (added, removed int) {
	for _, op := range ops {
		n := strings.Count(op.Text, "\n")
		if !strings.HasSuffix(op.Text, "\n") && op.Text != "" {
			n++
		}
		switch op.Type {
		case blocks.DiffInsert:
			added += n
		case blocks.DiffDelete:
			removed += n
		}
	}
	return added, removed
}

// Apply rebuilds the old and new texts from ops.
func Apply(ops []blocks.DiffOp) (oldText, newText string) {
	var o, n strings.Builder
	for _, op := range ops {
		switch op.Type {
		case blocks.DiffEqual:
			o.WriteString(op.Text)
			n.WriteString(op.Text)
		case blocks.DiffDelete:
			o.WriteString(op.Text)
		case blocks.DiffInsert:
			n.WriteString(op.Text)
		}
	}
	return o.String(), n.String()
}

type opBuilder struct {
	ops []blocks.DiffOp
}

func (b *opBuilder) add(t blocks.DiffOpType, text string) {
	if n := len(b.ops); n > 0 && b.ops[n-1].Type == t {
		b.ops[n-1].Text += text
		return
	}
	b.ops = append(b.ops, blocks.DiffOp{Type: t, Text: text})
}

func (b *opBuilder) trimNewline() {
	if n := len(b.ops); n > 0 {
		b.ops[n-1].Text = strings.TrimSuffix(b.ops[n-1].Text, "\n")
	}
}

// oldLine returns old line i, falling back to the unified line body.
func oldLine(lines []string, i int, unifiedLine string) string {
	if i < len(lines) {
		return lines[i]
	}
	return unifiedLine[1:]
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
