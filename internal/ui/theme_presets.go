package ui

import "fmt"

// ThemePreset is a named base palette that config overrides apply on top of.
type ThemePreset struct {
	Name        string
	Description string
	Config      ThemeConfig
}

// PresetThemeNames defines the display order of themes
var PresetThemeNames = []string{
	"gruvbox",
	"dracula",
	"nord",
	"solarized",
	"monokai",
	"classic",
}

// PresetThemes contains all predefined themes
var PresetThemes = map[string]ThemePreset{
	"classic": {
		Name:        "classic",
		Description: "Green on black, ANSI colors only",
		Config: ThemeConfig{
			Primary:   "10",
			Secondary: "4",
			Success:   "10",
			Error:     "9",
			Warning:   "11",
			Muted:     "245",
			Text:      "15",
			UserMsgBg: "236",
		},
	},
	"dracula": {
		Name:        "dracula",
		Description: "Dark with purple accents",
		Config: ThemeConfig{
			Primary:   "#bd93f9",
			Secondary: "#8be9fd",
			Success:   "#50fa7b",
			Error:     "#ff5555",
			Warning:   "#f1fa8c",
			Muted:     "#6272a4",
			Text:      "#f8f8f2",
			UserMsgBg: "#44475a",
		},
	},
	"nord": {
		Name:        "nord",
		Description: "Arctic blues",
		Config: ThemeConfig{
			Primary:   "#88c0d0",
			Secondary: "#81a1c1",
			Success:   "#a3be8c",
			Error:     "#bf616a",
			Warning:   "#ebcb8b",
			Muted:     "#4c566a",
			Text:      "#eceff4",
			UserMsgBg: "#3b4252",
		},
	},
	"solarized": {
		Name:        "solarized",
		Description: "Solarized dark",
		Config: ThemeConfig{
			Primary:   "#268bd2",
			Secondary: "#2aa198",
			Success:   "#859900",
			Error:     "#dc322f",
			Warning:   "#b58900",
			Muted:     "#586e75",
			Text:      "#839496",
			UserMsgBg: "#073642",
		},
	},
	"monokai": {
		Name:        "monokai",
		Description: "Monokai, matching the default code style",
		Config: ThemeConfig{
			Primary:   "#a6e22e",
			Secondary: "#66d9ef",
			Success:   "#a6e22e",
			Error:     "#f92672",
			Warning:   "#e6db74",
			Muted:     "#75715e",
			Text:      "#f8f8f2",
			UserMsgBg: "#3e3d32",
		},
	},
	"gruvbox": {
		Name:        "gruvbox",
		Description: "Retro groove (default)",
		Config: ThemeConfig{
			Primary:   "#b8bb26",
			Secondary: "#83a598",
			Success:   "#b8bb26",
			Error:     "#fb4934",
			Warning:   "#fabd2f",
			Muted:     "#928374",
			Text:      "#ebdbb2",
			UserMsgBg: "#3c3836",
		},
	},
}

// GetPresetTheme returns a preset by name, or nil if not found
func GetPresetTheme(name string) *ThemePreset {
	if preset, ok := PresetThemes[name]; ok {
		return &preset
	}
	return nil
}

// ValidatePreset reports an error for a non-empty unknown preset name.
func ValidatePreset(name string) error {
	if name == "" || GetPresetTheme(name) != nil {
		return nil
	}
	return fmt.Errorf("unknown theme preset %q (available: %v)", name, PresetThemeNames)
}

// withPreset fills the empty fields of cfg from its preset.
func withPreset(cfg ThemeConfig) ThemeConfig {
	preset := GetPresetTheme(cfg.Preset)
	if preset == nil {
		return cfg
	}
	base := preset.Config
	for _, f := range []struct{ dst, src *string }{
		{&cfg.Primary, &base.Primary},
		{&cfg.Secondary, &base.Secondary},
		{&cfg.Success, &base.Success},
		{&cfg.Error, &base.Error},
		{&cfg.Warning, &base.Warning},
		{&cfg.Muted, &base.Muted},
		{&cfg.Text, &base.Text},
		{&cfg.UserMsgBg, &base.UserMsgBg},
	} {
		if *f.dst == "" {
			*f.dst = *f.src
		}
	}
	return cfg
}

// MatchPresetTheme finds a preset whose colors equal cfg's, or returns ""
func MatchPresetTheme(cfg ThemeConfig) string {
	cfg = withPreset(cfg)
	for _, name := range PresetThemeNames {
		if themesMatch(cfg, PresetThemes[name].Config) {
			return name
		}
	}
	return ""
}

func themesMatch(a, b ThemeConfig) bool {
	a.Preset, b.Preset = "", ""
	return a == b
}
