package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/samsaffron/msgblocks/internal/render"
	"github.com/samsaffron/msgblocks/internal/signal"
	"github.com/samsaffron/msgblocks/internal/stream"
	"github.com/samsaffron/msgblocks/internal/tui/viewer"
)

var streamCmd = &cobra.Command{
	Use:   "stream [file]",
	Short: "Replay a message as if it were streaming",
	Long: `Feed a message to the renderer a few characters at a time, the way a
model reply arrives, and report how much work each step needed.

Blocks that did not change between steps keep their identity and are not
rendered again.

Examples:
  msgblocks stream reply.md                   # print the final frame and totals
  msgblocks stream --stats reply.md           # one line per step
  msgblocks stream --tui --interval 50ms reply.md
  msgblocks stream --words reply.md           # release whole words`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStream,
}

var (
	streamFlags    ClassifyFlags
	streamChunk    int
	streamInterval time.Duration
	streamTUI      bool
	streamStats    bool
	streamWords    bool
)

func init() {
	AddClassifyFlags(streamCmd, &streamFlags)
	streamCmd.Flags().IntVar(&streamChunk, "chunk", 0, "Characters per step (default from config)")
	streamCmd.Flags().DurationVar(&streamInterval, "interval", -1, "Delay between steps (default from config)")
	streamCmd.Flags().BoolVar(&streamTUI, "tui", false, "Play the stream in a full-screen viewer")
	streamCmd.Flags().BoolVar(&streamStats, "stats", false, "Print statistics for every step")
	streamCmd.Flags().BoolVar(&streamWords, "words", false, "Release whole words at an adaptive pace instead of fixed chunks")
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, args []string) error {
	role, opts, err := classifyOptions(streamFlags)
	if err != nil {
		return err
	}
	inputs, err := readInputs(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	in := inputs[0]

	chunkSize, interval := streamChunk, streamInterval
	if appConfig != nil {
		if chunkSize <= 0 {
			chunkSize = appConfig.Stream.ChunkSize
		}
		if interval < 0 {
			interval = appConfig.Stream.Interval
		}
	}
	interval = max(interval, 0)

	var chunks []string
	if streamWords {
		chunks = wordChunks(in.Text)
	} else {
		chunks = stream.Chunks(in.Text, chunkSize)
	}

	out := cmd.OutOrStdout()
	width := renderWidth(out)
	backend := newTerminal(out, role, in.Dir, false)
	d := render.NewDispatcher(render.CollaboratorsFor(backend), width, render.WithLogger(logger))
	dr := stream.NewDriver(d, stream.Config{
		Role:          role,
		Options:       opts,
		CollapseLines: collapseLines(false),
		Logger:        logger,
	})
	dr.Switch(in.Name, role)

	if streamTUI {
		return runStreamTUI(dr, chunks, interval, width)
	}

	ctx, stop := signal.NotifyContext(cmd.Context())
	defer stop()

	var (
		last                    stream.Tick
		ticks, renders, skipped int
	)
	err = stream.Play(ctx, dr, chunks, interval, func(t stream.Tick) error {
		ticks++
		renders += t.Stats.Rendered
		skipped += t.Stats.Skipped
		last = t
		if streamStats {
			_, err := fmt.Fprintf(out, "step %d: blocks=%d reused=%d rendered=%d skipped=%d\n",
				ticks, t.Stats.Blocks, t.Stats.Reused, t.Stats.Rendered, t.Stats.Skipped)
			return err
		}
		return nil
	})
	if err != nil && !errors.Is(err, ctx.Err()) {
		return err
	}

	if !streamStats && last.Frame != "" {
		fmt.Fprintln(out, last.Frame)
		if last.Collapsed {
			fmt.Fprintln(out, collapseHint(newStyles(out), last.Stats.HiddenLines))
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d steps, %d blocks rendered, %d skipped\n", ticks, renders, skipped)
	return nil
}

func runStreamTUI(dr *stream.Driver, chunks []string, interval time.Duration, width int) error {
	height := 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	if interval <= 0 {
		interval = 30 * time.Millisecond
	}

	m := viewer.New(dr, chunks, interval, width, height, newStyles(os.Stdout))
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	t := m.Totals()
	fmt.Fprintf(os.Stderr, "%d steps, %d blocks rendered, %d skipped\n", t.Ticks, t.Rendered, t.Skipped)
	return nil
}

// wordChunks releases text through a Chunker the way live output is paced.
func wordChunks(text string) []string {
	c := stream.NewChunker()
	c.Write(text)
	c.MarkDone()

	var out []string
	for !c.Drained() {
		next := c.Next()
		if next == "" {
			break
		}
		out = append(out, next)
	}
	return out
}
