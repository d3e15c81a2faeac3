package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/samsaffron/msgblocks/internal/blocks"
	"github.com/samsaffron/msgblocks/internal/image"
	"github.com/samsaffron/msgblocks/internal/render"
	"github.com/samsaffron/msgblocks/internal/session"
	"github.com/samsaffron/msgblocks/internal/ui"
)

// input is one message text read from a file or stdin.
type input struct {
	Name string // path, or "-" for stdin
	Dir  string // base directory for relative image paths
	Text string
}

// readInputs reads every argument, expanding glob patterns with doublestar.
// No arguments, or "-", reads stdin.
func readInputs(args []string, stdin io.Reader) ([]input, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}

	var inputs []input
	for _, arg := range args {
		if arg == "-" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("read stdin: %w", err)
			}
			dir, _ := os.Getwd()
			inputs = append(inputs, input{Name: "-", Dir: dir, Text: string(data)})
			continue
		}

		paths, err := expandPattern(arg)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			inputs = append(inputs, input{Name: path, Dir: filepath.Dir(abs), Text: string(data)})
		}
	}
	return inputs, nil
}

func expandPattern(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// classifyOptions builds the classifier overrides from flags and config.
func classifyOptions(f ClassifyFlags) (blocks.Role, blocks.Options, error) {
	role, err := session.ParseRole(f.Role)
	if err != nil {
		return "", blocks.Options{}, err
	}

	var opts blocks.Options
	if appConfig != nil && len(appConfig.Images.Extensions) > 0 {
		matcher, err := blocks.NewImageMatcher(appConfig.Images.Extensions)
		if err != nil {
			return "", blocks.Options{}, fmt.Errorf("images.extensions: %w", err)
		}
		opts.Images = matcher
	}
	if f.Code {
		opts.ForceCode = &blocks.CodeOverride{Title: f.Title}
	}
	opts.ForceMarkdown = f.Markdown
	return role, opts, nil
}

// newStyles builds styles for w from the configured theme.
func newStyles(w io.Writer) *ui.Styles {
	var theme *ui.Theme
	if appConfig != nil {
		theme = ui.ThemeFromConfig(appConfig.Theme.UI())
	}
	return ui.NewStyles(w, theme, noColor)
}

// newTerminal builds the terminal backend for messages written by role.
// interactive enables the HTML confirmation prompt.
func newTerminal(out io.Writer, role blocks.Role, baseDir string, interactive bool) *render.Terminal {
	cfg := appConfig
	opts := render.TerminalOptions{
		Styles:     newStyles(out),
		UserText:   role == blocks.RoleUser,
		Capability: image.DetectCapability(nil),
		BaseDir:    baseDir,
		Logger:     logger,
	}
	if cfg != nil {
		opts.MarkdownStyle = cfg.Render.MarkdownStyle
		opts.CodeStyle = cfg.Render.CodeStyle
		opts.Commands = cfg.Commands
		opts.InlineImages = cfg.Render.InlineImages && isTTY(out) && !noColor
		switch {
		case !cfg.Render.ConfirmHTML:
			opts.ConfirmHTML = func(string) bool { return true }
		case interactive:
			opts.ConfirmHTML = confirmHTML
		}
	}
	if noColor {
		opts.MarkdownStyle = "notty"
	}
	return render.NewTerminal(opts)
}

// confirmHTML asks before showing the source of a raw HTML document.
func confirmHTML(title string) bool {
	desc := "Show raw HTML document?"
	if title != "" {
		desc = fmt.Sprintf("Show raw HTML document %q?", title)
	}

	show := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(desc).
				Affirmative("Yes").
				Negative("No").
				WithButtonAlignment(lipgloss.Left).
				Value(&show),
		),
	).WithShowHelp(false)
	if err := form.Run(); err != nil {
		logger.Debug("html confirmation aborted", "error", err)
		return false
	}
	return show
}

// collapseLines is the configured threshold, 0 when expanded or disabled.
func collapseLines(expand bool) int {
	if expand || appConfig == nil {
		return 0
	}
	return appConfig.CollapseLines()
}
