package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// ClassifyFlags holds the classification overrides shared by the commands
// that split text.
type ClassifyFlags struct {
	Role     string
	Code     bool
	Title    string
	Markdown bool
}

var roleNames = []string{"user", "assistant", "system"}

// AddRoleFlag adds the --role/-r flag with completion
func AddRoleFlag(cmd *cobra.Command, dest *string, def string) {
	cmd.Flags().StringVarP(dest, "role", "r", def, "Author of the text (user, assistant, system)")
	if err := cmd.RegisterFlagCompletionFunc("role", fixedCompletion(roleNames)); err != nil {
		panic("failed to register role completion: " + err.Error())
	}
}

// AddClassifyFlags adds --role, --code, --title and --markdown
func AddClassifyFlags(cmd *cobra.Command, f *ClassifyFlags) {
	AddRoleFlag(cmd, &f.Role, "assistant")
	cmd.Flags().BoolVar(&f.Code, "code", false, "Treat the whole text as one code block")
	cmd.Flags().StringVar(&f.Title, "title", "", "Title of the forced code block (with --code)")
	cmd.Flags().BoolVar(&f.Markdown, "markdown", false, "Treat the whole text as one markdown block")
	cmd.MarkFlagsMutuallyExclusive("code", "markdown")
}

// AddFormatFlag adds the --format/-f flag restricted to the given choices
func AddFormatFlag(cmd *cobra.Command, dest *string, choices ...string) {
	cmd.Flags().StringVarP(dest, "format", "f", choices[0], "Output format ("+strings.Join(choices, ", ")+")")
	if err := cmd.RegisterFlagCompletionFunc("format", fixedCompletion(choices)); err != nil {
		panic("failed to register format completion: " + err.Error())
	}
}

// AddExpandFlag adds the --expand/-e flag
func AddExpandFlag(cmd *cobra.Command, dest *bool) {
	cmd.Flags().BoolVarP(dest, "expand", "e", false, "Show long user messages in full")
}

// LogLevelFlagCompletion completes --log-level
func LogLevelFlagCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return fixedCompletion([]string{"debug", "info", "warn", "error"})(cmd, args, toComplete)
}

func fixedCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				out = append(out, v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
