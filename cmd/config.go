package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/samsaffron/msgblocks/internal/config"
	"github.com/samsaffron/msgblocks/internal/session"
	"github.com/samsaffron/msgblocks/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage msgblocks configuration",
	Long: `View or create your msgblocks configuration.

Every key can be overridden with an environment variable, e.g.
MSGBLOCKS_RENDER_WIDTH=100 or MSGBLOCKS_COLLAPSE_LINES=20.

Examples:
  msgblocks config                     # show effective config
  msgblocks config path                # print config file path
  msgblocks config init                # write the defaults to the config file
  msgblocks config themes              # list theme presets
  msgblocks config completion zsh      # generate shell completions`,
	RunE: configShow, // Default to show
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print configuration file path",
	RunE:  configPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	RunE:  configInit,
}

var configThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List theme presets",
	RunE:  configThemes,
}

var configCompletionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script.

Examples:
  msgblocks config completion bash > ~/.bash_completion.d/msgblocks
  msgblocks config completion zsh > "${fpath[1]}/_msgblocks"
  msgblocks config completion fish > ~/.config/fish/completions/msgblocks.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:      configCompletion,
}

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configThemesCmd)
	configCmd.AddCommand(configCompletionCmd)
	rootCmd.AddCommand(configCmd)
}

func configShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if appConfig.Source != "" {
		fmt.Fprintf(out, "# %s\n", appConfig.Source)
	} else {
		fmt.Fprintln(out, "# no config file, showing defaults")
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(appConfig); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if dbPath, err := session.GetDBPath(appConfig.Session); err == nil {
		fmt.Fprintf(out, "# sessions database: %s\n", dbPath)
	}
	return nil
}

func configPath(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		var err error
		path, err = config.GetConfigPath()
		if err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func configInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		var err error
		path, err = config.GetConfigPath()
		if err != nil {
			return err
		}
	}
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	data, err := yaml.Marshal(appConfig)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func configThemes(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	active := ui.MatchPresetTheme(appConfig.Theme.UI())
	if appConfig.Theme == (config.ThemeConfig{}) {
		active = ui.PresetThemeNames[0]
	}
	for _, name := range ui.PresetThemeNames {
		preset := ui.GetPresetTheme(name)
		marker := " "
		if name == active {
			marker = "*"
		}
		styles := ui.NewStyles(out, ui.ThemeFromConfig(ui.ThemeConfig{Preset: name}), noColor)
		fmt.Fprintf(out, "%s %s %s\n", marker, styles.Command.Render(fmt.Sprintf("%-10s", name)), preset.Description)
	}
	return nil
}

func configCompletion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	switch args[0] {
	case "bash":
		return rootCmd.GenBashCompletion(out)
	case "zsh":
		return rootCmd.GenZshCompletion(out)
	case "fish":
		return rootCmd.GenFishCompletion(out, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(out)
	}
	return nil
}
