// Package completion provides shell completion generation commands.
package completion

import (
	"io"

	"github.com/spf13/cobra"
)

type shell struct {
	name     string
	title    string
	long     string
	example  string
	generate func(root *cobra.Command, w io.Writer) error
}

var shells = []shell{
	{
		name:  "bash",
		title: "bash",
		long: `To load completions in your current shell session:

  source <(tint completion bash)

To load completions for every new session:

  # Linux
  tint completion bash > /etc/bash_completion.d/tint

  # macOS (requires bash-completion)
  tint completion bash > $(brew --prefix)/etc/bash_completion.d/tint`,
		example: `  # Load in current session
  source <(tint completion bash)

  # Install permanently (Linux)
  tint completion bash | sudo tee /etc/bash_completion.d/tint > /dev/null`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenBashCompletion(w)
		},
	},
	{
		name:  "zsh",
		title: "zsh",
		long: `To load completions in your current shell session:

  source <(tint completion zsh)

To load completions for every new session, make sure compinit runs in
~/.zshrc and add the script to your fpath:

  tint completion zsh > "${fpath[1]}/_tint"`,
		example: `  # Install permanently
  mkdir -p ~/.zsh/completions
  tint completion zsh > ~/.zsh/completions/_tint`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenZshCompletion(w)
		},
	},
	{
		name:  "fish",
		title: "fish",
		long: `To load completions in your current shell session:

  tint completion fish | source

To load completions for every new session:

  tint completion fish > ~/.config/fish/completions/tint.fish`,
		example: `  tint completion fish > ~/.config/fish/completions/tint.fish`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenFishCompletion(w, true)
		},
	},
	{
		name:  "powershell",
		title: "PowerShell",
		long: `To load completions in your current shell session:

  tint completion powershell | Out-String | Invoke-Expression

To load completions for every new session, add the output to your
PowerShell profile ($PROFILE).`,
		example: `  tint completion powershell >> $PROFILE`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenPowerShellCompletionWithDesc(w)
		},
	},
}

// NewCmdCompletion creates the completion command.
func NewCmdCompletion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tint.

These scripts enable tab-completion for commands, flags, and flag values
such as --output and --profile. See each sub-command's help for
installation instructions.`,
	}

	for _, sh := range shells {
		cmd.AddCommand(newShellCmd(sh))
	}

	return cmd
}

func newShellCmd(sh shell) *cobra.Command {
	return &cobra.Command{
		Use:                   sh.name,
		Short:                 "Generate " + sh.title + " completion script",
		Long:                  "Generate " + sh.title + " completion script for tint.\n\n" + sh.long,
		Example:               sh.example,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sh.generate(cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// RegisterFlagValues completes flag on cmd with a fixed list of values.
func RegisterFlagValues(cmd *cobra.Command, flag string, values []string) {
	_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
}
