package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samsaffron/msgblocks/internal/blocks"
	"github.com/samsaffron/msgblocks/internal/render"
	"github.com/samsaffron/msgblocks/internal/textdiff"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Render the line diff of two files as a diff block",
	Long: `Compute a line diff between two files and render it the way an edited
message is shown.

Examples:
  msgblocks diff draft.md final.md
  msgblocks diff --stat draft.md final.md`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

var diffStat bool

func init() {
	diffCmd.Flags().BoolVar(&diffStat, "stat", false, "Only print the number of added and removed lines")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	oldText, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	newText, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[1], err)
	}

	out := cmd.OutOrStdout()
	ops := textdiff.Compute(string(oldText), string(newText))
	added, removed := textdiff.Stats(ops)
	if diffStat {
		fmt.Fprintf(out, "+%d -%d\n", added, removed)
		return nil
	}
	if added == 0 && removed == 0 {
		fmt.Fprintln(out, "no differences")
		return nil
	}

	bs := blocks.Classify(string(newText), blocks.RoleAssistant, blocks.Options{ForceDiff: ops})
	backend := newTerminal(out, blocks.RoleAssistant, "", false)
	d := render.NewDispatcher(render.CollaboratorsFor(backend), renderWidth(out), render.WithLogger(logger))
	frame, _ := d.Render(bs)

	styles := newStyles(out)
	fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("--- %s", args[0])))
	fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("+++ %s", args[1])))
	fmt.Fprintln(out, frame)
	fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("%d added, %d removed", added, removed)))
	return nil
}
