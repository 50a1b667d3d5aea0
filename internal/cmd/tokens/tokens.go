// Package tokens provides the strip and escape commands.
package tokens

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/tint-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/tint-cli/pkg/markup"
)

type tokenOptions struct {
	args  []string
	stdin io.Reader // For testing; defaults to os.Stdin
	out   io.Writer // For testing; defaults to os.Stdout
}

// NewCmdStrip creates the strip command.
func NewCmdStrip() *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:   "strip [markup...]",
		Short: "Remove all tags from markup",
		Long: `Remove every tag from markup, keeping only its text.

Tags are removed whether or not they are known; escapes are kept as written.`,
		Example: `  tint strip "<red>Hello <bold>world"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.args = args
			return runTokens(opts, markup.StripTokens)
		},
	}

	return cmd
}

// NewCmdEscape creates the escape command.
func NewCmdEscape() *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:   "escape [markup...]",
		Short: "Escape all tags in markup",
		Long: `Escape every tag in markup so it renders as literal text.

Tags nested inside quoted arguments are escaped too.`,
		Example: `  tint escape "<red>Hello"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.args = args
			return runTokens(opts, markup.EscapeTokens)
		},
	}

	return cmd
}

func runTokens(opts *tokenOptions, transform func(string) string) error {
	input, err := cmdutil.ReadInput(opts.args, opts.stdin)
	if err != nil {
		return err
	}

	out := opts.out
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintln(out, transform(input))
	return err
}
