package ui

import (
	"io"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme defines the color palette for the UI
type Theme struct {
	Primary   lipgloss.Color // main accent color (commands, highlights)
	Secondary lipgloss.Color // secondary accent (headers, borders)

	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color

	Border lipgloss.Color

	// Diff backgrounds
	DiffAddBg    lipgloss.Color
	DiffRemoveBg lipgloss.Color

	// Background for user-authored text
	UserMsgBg lipgloss.Color
}

// DefaultTheme returns the default color theme (gruvbox)
func DefaultTheme() *Theme {
	return &Theme{
		Primary:      lipgloss.Color("#b8bb26"), // gruvbox green
		Secondary:    lipgloss.Color("#83a598"), // gruvbox aqua
		Success:      lipgloss.Color("#b8bb26"),
		Error:        lipgloss.Color("#fb4934"),
		Warning:      lipgloss.Color("#fabd2f"),
		Muted:        lipgloss.Color("#928374"),
		Text:         lipgloss.Color("#ebdbb2"),
		Border:       lipgloss.Color("#83a598"),
		DiffAddBg:    lipgloss.Color("#213a21"),
		DiffRemoveBg: lipgloss.Color("#3c1f1e"),
		UserMsgBg:    lipgloss.Color("#3c3836"),
	}
}

// ThemeConfig mirrors config.ThemeConfig for applying overrides
type ThemeConfig struct {
	Preset    string // base palette from PresetThemes
	Primary   string
	Secondary string
	Success   string
	Error     string
	Warning   string
	Muted     string
	Text      string
	UserMsgBg string
}

// ThemeFromConfig creates a theme from the config's preset with its
// overrides applied
func ThemeFromConfig(cfg ThemeConfig) *Theme {
	theme := DefaultTheme()
	cfg = withPreset(cfg)

	if cfg.Primary != "" {
		theme.Primary = lipgloss.Color(cfg.Primary)
	}
	if cfg.Secondary != "" {
		theme.Secondary = lipgloss.Color(cfg.Secondary)
		theme.Border = lipgloss.Color(cfg.Secondary) // border follows secondary
	}
	if cfg.Success != "" {
		theme.Success = lipgloss.Color(cfg.Success)
	}
	if cfg.Error != "" {
		theme.Error = lipgloss.Color(cfg.Error)
	}
	if cfg.Warning != "" {
		theme.Warning = lipgloss.Color(cfg.Warning)
	}
	if cfg.Muted != "" {
		theme.Muted = lipgloss.Color(cfg.Muted)
	}
	if cfg.Text != "" {
		theme.Text = lipgloss.Color(cfg.Text)
	}
	if cfg.UserMsgBg != "" {
		theme.UserMsgBg = lipgloss.Color(cfg.UserMsgBg)
	}

	return theme
}

// Styles holds lipgloss styles bound to one renderer
type Styles struct {
	renderer *lipgloss.Renderer
	theme    *Theme

	Title     lipgloss.Style
	Muted     lipgloss.Style
	Bold      lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Command   lipgloss.Style
	UserText  lipgloss.Style
	Collapsed lipgloss.Style

	// Block chrome
	CodeHeader lipgloss.Style
	HTMLNotice lipgloss.Style
	ImageLine  lipgloss.Style

	// Diff styles
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style
}

// NewStyles creates styles for w. When noColor is set every style renders
// plain text regardless of the terminal.
func NewStyles(w io.Writer, theme *Theme, noColor bool) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		renderer: r,
		theme:    theme,

		Title: r.NewStyle().
			Bold(true).
			Foreground(theme.Text),

		Muted: r.NewStyle().
			Foreground(theme.Muted),

		Bold: r.NewStyle().
			Bold(true),

		Error: r.NewStyle().
			Foreground(theme.Error),

		Warning: r.NewStyle().
			Foreground(theme.Warning),

		Command: r.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		UserText: r.NewStyle().
			Background(theme.UserMsgBg),

		Collapsed: r.NewStyle().
			Italic(true).
			Foreground(theme.Muted),

		CodeHeader: r.NewStyle().
			Foreground(theme.Secondary).
			Bold(true),

		HTMLNotice: r.NewStyle().
			Foreground(theme.Warning).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Warning).
			Padding(0, 1),

		ImageLine: r.NewStyle().
			Foreground(theme.Secondary),

		DiffAdd: r.NewStyle().
			Foreground(theme.Success).
			Background(theme.DiffAddBg),

		DiffRemove: r.NewStyle().
			Foreground(theme.Error).
			Background(theme.DiffRemoveBg),

		DiffContext: r.NewStyle().
			Foreground(theme.Muted),
	}
}

// Theme returns the theme used by these styles
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Plain reports whether the styles render without any color.
func (s *Styles) Plain() bool {
	return s.renderer.ColorProfile() == termenv.Ascii
}

// GlamourStyleFromTheme creates a glamour StyleConfig from the given theme
func GlamourStyleFromTheme(theme *Theme) ansi.StyleConfig {
	primary := string(theme.Primary)
	secondary := string(theme.Secondary)
	warning := string(theme.Warning)
	muted := string(theme.Muted)
	text := string(theme.Text)

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: &text,
			},
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  &warning,
				Italic: boolPtr(true),
			},
			Indent: uintPtr(2),
		},
		List: ansi.StyleList{
			LevelIndent: 2,
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{
					Color: &text,
				},
			},
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockPrefix: "\n",
				Color:       &secondary,
				Bold:        boolPtr(true),
			},
		},
		H1: ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "# "}},
		H2: ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "## "}},
		H3: ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "### "}},
		Strikethrough: ansi.StylePrimitive{
			CrossedOut: boolPtr(true),
		},
		Emph: ansi.StylePrimitive{
			Color:  &warning,
			Italic: boolPtr(true),
		},
		Strong: ansi.StylePrimitive{
			Bold:  boolPtr(true),
			Color: &primary,
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  &muted,
			Format: "\n--------\n",
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "• ",
		},
		Enumeration: ansi.StylePrimitive{
			BlockPrefix: ". ",
			Color:       &secondary,
		},
		Link: ansi.StylePrimitive{
			Color:     &secondary,
			Underline: boolPtr(true),
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: &primary,
			},
		},
	}
}

func boolPtr(b bool) *bool { return &b }
func uintPtr(u uint) *uint { return &u }
