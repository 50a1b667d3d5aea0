// Package root provides the root command for the tint CLI.
package root

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/tint-cli/internal/cmd/completion"
	"github.com/open-cli-collective/tint-cli/internal/cmd/configcmd"
	"github.com/open-cli-collective/tint-cli/internal/cmd/convert"
	"github.com/open-cli-collective/tint-cli/internal/cmd/gradient"
	initcmd "github.com/open-cli-collective/tint-cli/internal/cmd/init"
	"github.com/open-cli-collective/tint-cli/internal/cmd/rendercmd"
	"github.com/open-cli-collective/tint-cli/internal/cmd/tags"
	"github.com/open-cli-collective/tint-cli/internal/cmd/tokens"
	"github.com/open-cli-collective/tint-cli/internal/cmd/tree"
	"github.com/open-cli-collective/tint-cli/internal/config"
	"github.com/open-cli-collective/tint-cli/internal/logging"
	"github.com/open-cli-collective/tint-cli/internal/version"
	"github.com/open-cli-collective/tint-cli/internal/view"
)

// NewCmdRoot creates the root command for tint.
func NewCmdRoot() *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:   "tint",
		Short: "Render tag markup as styled terminal text",
		Long: `tint compiles tag markup such as "<yellow>Hello <bold>world" into styled
text and renders it in your terminal.

It can also show the parsed node tree, strip or escape tags, convert
markdown and HTML into markup, and preview gradients.

Get started by running: tint render "<rainbow>Hello, world!"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logging.Setup(verbosity, os.Stderr)
			output, _ := cmd.Flags().GetString("output")
			return view.ValidateFormat(output)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/tint/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, yaml, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv, -vvv)")

	cmd.SetVersionTemplate(version.String() + "\n")

	// Subcommands
	initCmd := initcmd.NewCmdInit()
	completion.RegisterFlagValues(initCmd, "profile", config.ColorProfiles())
	renderCmd := rendercmd.NewCmdRender()
	completion.RegisterFlagValues(renderCmd, "profile", config.ColorProfiles())
	convertCmd := convert.NewCmdConvert()
	completion.RegisterFlagValues(convertCmd, "from", []string{convert.FromMarkdown, convert.FromHTML})

	cmd.AddCommand(initCmd)
	cmd.AddCommand(renderCmd)
	cmd.AddCommand(tree.NewCmdTree())
	cmd.AddCommand(tokens.NewCmdStrip())
	cmd.AddCommand(tokens.NewCmdEscape())
	cmd.AddCommand(convertCmd)
	cmd.AddCommand(gradient.NewCmdGradient())
	cmd.AddCommand(tags.NewCmdTags())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	completion.RegisterFlagValues(cmd, "output", view.ValidFormats())

	return cmd
}
