package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samsaffron/msgblocks/internal/blocks"
	"github.com/samsaffron/msgblocks/internal/render"
	"github.com/samsaffron/msgblocks/internal/stream"
	"github.com/samsaffron/msgblocks/internal/ui"
)

var renderCmd = &cobra.Command{
	Use:   "render [file...]",
	Short: "Render a message for the terminal or as HTML",
	Long: `Classify message text and render every block.

The terminal format highlights code, draws local images inline when the
terminal supports it, and asks before showing raw HTML documents. The html
format writes a standalone page; HTML documents are embedded in sandboxed
iframes.

Examples:
  msgblocks render reply.md
  msgblocks render --role user prompt.txt
  msgblocks render --format html -o reply.html reply.md`,
	RunE: runRender,
}

var (
	renderFlags  ClassifyFlags
	renderFormat string
	renderOutput string
	renderExpand bool
)

func init() {
	AddClassifyFlags(renderCmd, &renderFlags)
	AddFormatFlag(renderCmd, &renderFormat, "terminal", "html")
	AddExpandFlag(renderCmd, &renderExpand)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write output to a file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	role, opts, err := classifyOptions(renderFlags)
	if err != nil {
		return err
	}
	inputs, err := readInputs(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if renderOutput != "" {
		f, err := os.Create(renderOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch renderFormat {
	case "terminal":
		return renderTerminal(out, inputs, role, opts)
	case "html":
		return renderHTMLDocument(out, inputs, role, opts)
	default:
		return fmt.Errorf("unknown format %q (want terminal or html)", renderFormat)
	}
}

func renderTerminal(out io.Writer, inputs []input, role blocks.Role, opts blocks.Options) error {
	width := renderWidth(out)
	interactive := isTTY(os.Stdin) && isTTY(out)
	styles := newStyles(out)

	for i, in := range inputs {
		if in.Name == "-" {
			interactive = false
		}
		backend := newTerminal(out, role, in.Dir, interactive)
		d := render.NewDispatcher(render.CollaboratorsFor(backend), width, render.WithLogger(logger))
		dr := stream.NewDriver(d, stream.Config{
			Role:          role,
			Options:       opts,
			CollapseLines: collapseLines(renderExpand),
			Logger:        logger,
		})
		dr.Switch(in.Name, role)

		tick := dr.SetText(in.Text)
		if len(inputs) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, styles.Bold.Render(in.Name))
		}
		fmt.Fprintln(out, tick.Frame)
		if tick.Collapsed {
			fmt.Fprintln(out, collapseHint(styles, tick.Stats.HiddenLines))
		}
	}
	return nil
}

// collapseHint is shown under a collapsed user message.
func collapseHint(styles *ui.Styles, hidden int) string {
	noun := "lines"
	if hidden == 1 {
		noun = "line"
	}
	return styles.Collapsed.Render(fmt.Sprintf("… %d more %s (use --expand to show all)", hidden, noun))
}

func renderHTMLDocument(out io.Writer, inputs []input, role blocks.Role, opts blocks.Options) error {
	codeStyle := ""
	if appConfig != nil {
		codeStyle = appConfig.Render.CodeStyle
	}
	exp := render.NewHTMLExport(codeStyle)
	d := render.NewDispatcher(render.CollaboratorsFor(exp), 0, render.WithLogger(logger))

	var body strings.Builder
	for _, in := range inputs {
		d.Reset()
		frame, stats := d.Render(blocks.Classify(in.Text, role, opts))
		logger.Debug("exported", "file", in.Name, "blocks", stats.Blocks)
		fmt.Fprintf(&body, "<section class=\"message %s\">\n%s\n</section>\n", role, frame)
	}

	doc, err := exp.Document(documentTitle(inputs), body.String())
	if err != nil {
		return fmt.Errorf("build document: %w", err)
	}
	_, err = io.WriteString(out, doc)
	return err
}

func documentTitle(inputs []input) string {
	if len(inputs) == 1 && inputs[0].Name != "-" {
		return filepath.Base(inputs[0].Name)
	}
	return "msgblocks"
}
