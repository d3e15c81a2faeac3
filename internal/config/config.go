package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/samsaffron/msgblocks/internal/session"
	"github.com/samsaffron/msgblocks/internal/ui"
)

type Config struct {
	Render   RenderConfig   `mapstructure:"render" yaml:"render"`
	Collapse CollapseConfig `mapstructure:"collapse" yaml:"collapse"`
	Images   ImagesConfig   `mapstructure:"images" yaml:"images"`
	Commands []string       `mapstructure:"commands" yaml:"commands"`
	Stream   StreamConfig   `mapstructure:"stream" yaml:"stream"`
	Session  session.Config `mapstructure:"session" yaml:"session"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Theme    ThemeConfig    `mapstructure:"theme" yaml:"theme"`

	// Source is the config file that was read, empty when none was found.
	Source string `mapstructure:"-" yaml:"-"`
}

// RenderConfig configures block rendering
type RenderConfig struct {
	Width         int    `mapstructure:"width" yaml:"width"`                   // 0 = terminal width
	MarkdownStyle string `mapstructure:"markdown_style" yaml:"markdown_style"` // glamour style or "theme"
	CodeStyle     string `mapstructure:"code_style" yaml:"code_style"`         // chroma style
	ConfirmHTML   bool   `mapstructure:"confirm_html" yaml:"confirm_html"`     // ask before showing raw HTML
	InlineImages  bool   `mapstructure:"inline_images" yaml:"inline_images"`   // draw local images inline
}

// CollapseConfig configures collapsing of long user messages
type CollapseConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Lines   int  `mapstructure:"lines" yaml:"lines"`
}

// ImagesConfig configures image line detection
type ImagesConfig struct {
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
}

// StreamConfig configures simulated streaming
type StreamConfig struct {
	ChunkSize int           `mapstructure:"chunk_size" yaml:"chunk_size"` // runes per tick
	Interval  time.Duration `mapstructure:"interval" yaml:"interval"`
}

// LogConfig configures logging
type LogConfig struct {
	Level   string `mapstructure:"level" yaml:"level"`     // debug, info, warn, error
	File    string `mapstructure:"file" yaml:"file"`       // optional JSON log file
	Journal bool   `mapstructure:"journal" yaml:"journal"` // also log to the systemd journal
}

// ThemeConfig allows customization of UI colors
// Colors can be ANSI color numbers (0-255) or hex codes (#RRGGBB)
type ThemeConfig struct {
	Preset    string `mapstructure:"preset" yaml:"preset,omitempty"` // gruvbox, dracula, nord, solarized, monokai, classic
	Primary   string `mapstructure:"primary" yaml:"primary,omitempty"`
	Secondary string `mapstructure:"secondary" yaml:"secondary,omitempty"`
	Success   string `mapstructure:"success" yaml:"success,omitempty"`
	Error     string `mapstructure:"error" yaml:"error,omitempty"`
	Warning   string `mapstructure:"warning" yaml:"warning,omitempty"`
	Muted     string `mapstructure:"muted" yaml:"muted,omitempty"`
	Text      string `mapstructure:"text" yaml:"text,omitempty"`
	UserMsgBg string `mapstructure:"user_msg_bg" yaml:"user_msg_bg,omitempty"`
}

// UI converts the theme overrides for the ui package
func (t ThemeConfig) UI() ui.ThemeConfig {
	return ui.ThemeConfig{
		Preset:    t.Preset,
		Primary:   t.Primary,
		Secondary: t.Secondary,
		Success:   t.Success,
		Error:     t.Error,
		Warning:   t.Warning,
		Muted:     t.Muted,
		Text:      t.Text,
		UserMsgBg: t.UserMsgBg,
	}
}

// CollapseLines returns the effective collapse threshold, 0 when disabled.
func (c *Config) CollapseLines() int {
	if !c.Collapse.Enabled {
		return 0
	}
	return c.Collapse.Lines
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("render.width", 0)
	v.SetDefault("render.markdown_style", ui.MarkdownStyleTheme)
	v.SetDefault("render.code_style", "monokai")
	v.SetDefault("render.confirm_html", true)
	v.SetDefault("render.inline_images", true)
	v.SetDefault("collapse.enabled", true)
	v.SetDefault("collapse.lines", 12)
	v.SetDefault("images.extensions", []string{"png", "jpg", "jpeg", "gif", "webp", "svg", "bmp", "avif", "ico"})
	v.SetDefault("commands", []string{"help", "clear", "model", "new", "resume", "expand"})
	v.SetDefault("stream.chunk_size", 4)
	v.SetDefault("stream.interval", "30ms")
	v.SetDefault("session.db", "")
	v.SetDefault("session.max_count", 0)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("log.journal", false)
}

// Load reads the config file at path, or config.yaml from the config
// directory and the working directory when path is empty. A missing default
// file is not an error. MSGBLOCKS_* environment variables override file
// values (MSGBLOCKS_RENDER_WIDTH for render.width).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("msgblocks")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		configDir, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config dir: %w", err)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()
	cfg.Session.Path = expandPath(cfg.Session.Path)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	if c.Render.Width < 0 {
		return fmt.Errorf("render.width must not be negative, got %d", c.Render.Width)
	}
	if c.Collapse.Enabled && c.Collapse.Lines <= 0 {
		return fmt.Errorf("collapse.lines must be positive when collapse is enabled, got %d", c.Collapse.Lines)
	}
	if len(c.Images.Extensions) == 0 {
		return errors.New("images.extensions must not be empty")
	}
	if c.Stream.Interval < 0 {
		return fmt.Errorf("stream.interval must not be negative, got %s", c.Stream.Interval)
	}
	if err := ui.ValidatePreset(c.Theme.Preset); err != nil {
		return fmt.Errorf("theme.preset: %w", err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	return nil
}

// expandPath expands a leading ~ and ${VAR} or $VAR references
func expandPath(s string) string {
	if s == "" {
		return s
	}
	if s == "~" || strings.HasPrefix(s, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			s = filepath.Join(home, s[1:])
		}
	}
	return os.ExpandEnv(s)
}

// GetConfigDir returns the XDG config directory for msgblocks.
// Uses $XDG_CONFIG_HOME if set, otherwise ~/.config
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "msgblocks"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "msgblocks"), nil
}

// GetConfigPath returns the path where the config file should be located
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// Exists returns true if a config file exists
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
