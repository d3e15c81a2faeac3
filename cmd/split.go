package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/samsaffron/msgblocks/internal/blocks"
	"github.com/samsaffron/msgblocks/internal/ui"
)

var splitCmd = &cobra.Command{
	Use:   "split [file...]",
	Short: "List the blocks a message splits into",
	Long: `Classify message text and print the resulting blocks.

Files may be glob patterns (e.g. "notes/**/*.md"). With no files, or "-",
the text is read from stdin.

Examples:
  msgblocks split reply.md
  msgblocks split --format yaml reply.md
  msgblocks split --code --title main.go main.go
  cat reply.md | msgblocks split -f json`,
	RunE: runSplit,
}

var (
	splitFlags  ClassifyFlags
	splitFormat string
)

func init() {
	AddClassifyFlags(splitCmd, &splitFlags)
	AddFormatFlag(splitCmd, &splitFormat, "text", "yaml", "json")
	rootCmd.AddCommand(splitCmd)
}

// blockRecord is the serialized form of a block.
type blockRecord struct {
	Kind    string     `json:"kind" yaml:"kind"`
	Content string     `json:"content,omitempty" yaml:"content,omitempty"`
	Title   string     `json:"title,omitempty" yaml:"title,omitempty"`
	Code    string     `json:"code,omitempty" yaml:"code,omitempty"`
	Partial bool       `json:"partial,omitempty" yaml:"partial,omitempty"`
	HTML    string     `json:"html,omitempty" yaml:"html,omitempty"`
	URL     string     `json:"url,omitempty" yaml:"url,omitempty"`
	Alt     string     `json:"alt,omitempty" yaml:"alt,omitempty"`
	Ops     []opRecord `json:"ops,omitempty" yaml:"ops,omitempty"`
}

type opRecord struct {
	Type string `json:"type" yaml:"type"`
	Text string `json:"text" yaml:"text"`
}

type fileRecord struct {
	File   string        `json:"file" yaml:"file"`
	Blocks []blockRecord `json:"blocks" yaml:"blocks"`
}

func toRecord(b blocks.Block) blockRecord {
	r := blockRecord{Kind: b.Kind().String()}
	switch v := b.(type) {
	case *blocks.MarkdownText:
		r.Content = v.Content
	case *blocks.FencedCode:
		r.Title = v.Title
		r.Code = v.Code
		r.Partial = v.Partial
	case *blocks.DangerousHTML:
		r.HTML = v.HTML
	case *blocks.ImageReference:
		r.URL = v.URL
		r.Alt = v.Alt
	case *blocks.TextDiff:
		for _, op := range v.Ops {
			r.Ops = append(r.Ops, opRecord{Type: op.Type.String(), Text: op.Text})
		}
	}
	return r
}

func runSplit(cmd *cobra.Command, args []string) error {
	role, opts, err := classifyOptions(splitFlags)
	if err != nil {
		return err
	}
	inputs, err := readInputs(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	files := make([]fileRecord, 0, len(inputs))
	for _, in := range inputs {
		bs := blocks.Classify(in.Text, role, opts)
		rec := fileRecord{File: in.Name, Blocks: make([]blockRecord, 0, len(bs))}
		for _, b := range bs {
			rec.Blocks = append(rec.Blocks, toRecord(b))
		}
		logger.Debug("classified", "file", in.Name, "blocks", len(bs))
		files = append(files, rec)
	}

	out := cmd.OutOrStdout()
	switch splitFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(files)
	case "text":
		for i, f := range files {
			if len(files) > 1 {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "==> %s <==\n", f.File)
			}
			writeBlockSummary(out, f.Blocks)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, yaml or json)", splitFormat)
	}
}

// writeBlockSummary prints one line per block with a short preview.
func writeBlockSummary(w io.Writer, recs []blockRecord) {
	for i, r := range recs {
		var detail, preview string
		switch r.Kind {
		case "markdown":
			detail = fmt.Sprintf("%d bytes", len(r.Content))
			preview = r.Content
		case "code":
			detail = fmt.Sprintf("title=%q %d bytes", r.Title, len(r.Code))
			if r.Partial {
				detail += " partial"
			}
			preview = r.Code
		case "html":
			detail = fmt.Sprintf("%d bytes", len(r.HTML))
			preview = r.HTML
		case "image":
			detail = fmt.Sprintf("alt=%q", r.Alt)
			preview = r.URL
		case "diff":
			detail = fmt.Sprintf("%d ops", len(r.Ops))
		}
		fmt.Fprintf(w, "[%d] %-8s %s\n", i, r.Kind, detail)
		if line := firstLine(preview); line != "" {
			fmt.Fprintf(w, "    %s\n", ui.Truncate(line, 72))
		}
	}
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\r\n")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "\r")
}
