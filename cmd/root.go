package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/samsaffron/msgblocks/internal/config"
	"github.com/samsaffron/msgblocks/internal/logging"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const defaultWidth = 80

var rootCmd = &cobra.Command{
	Use:   "msgblocks",
	Short: "Split chat messages into renderable blocks",
	Long: `msgblocks classifies chat message text into typed blocks (markdown,
fenced code, raw HTML documents, image lines and diffs) and renders them
for the terminal or as an HTML document.

Examples:
  msgblocks split reply.md                  # list the blocks of a message
  msgblocks render reply.md                 # render for the terminal
  msgblocks render --format html -o out.html reply.md
  msgblocks stream --tui reply.md           # replay a message as a stream
  msgblocks diff old.txt new.txt            # render a text diff
  msgblocks session import chat.yaml        # store a transcript
  msgblocks config completion zsh           # shell completions`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

// Global flags
var (
	configFile string
	logLevel   string
	noColor    bool
	widthFlag  int
)

// Loaded by setup before any subcommand runs.
var (
	appConfig *config.Config
	logger    = logging.Discard()
	logCloser io.Closer
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default is $XDG_CONFIG_HOME/msgblocks/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colors and styling")
	rootCmd.PersistentFlags().IntVarP(&widthFlag, "width", "w", 0, "Render width in columns (default: terminal width)")
	if err := rootCmd.RegisterFlagCompletionFunc("log-level", LogLevelFlagCompletion); err != nil {
		panic("failed to register log-level completion: " + err.Error())
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		if _, err := logging.ParseLevel(logLevel); err != nil {
			return err
		}
		cfg.Log.Level = logLevel
	}

	l, closer, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Journal: cfg.Log.Journal,
		Stderr:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	appConfig = cfg
	logger = l
	logCloser = closer
	logger.Debug("config loaded", slog.String("source", cfg.Source), slog.String("command", cmd.CommandPath()))
	return nil
}

// renderWidth resolves the width from the flag, the config, then the
// terminal attached to w.
func renderWidth(w io.Writer) int {
	if widthFlag > 0 {
		return widthFlag
	}
	if appConfig != nil && appConfig.Render.Width > 0 {
		return appConfig.Render.Width
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}

// isTTY reports whether w is an interactive terminal.
func isTTY(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
