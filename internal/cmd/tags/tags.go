// Package tags provides the tags command.
package tags

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/tint-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/tint-cli/internal/view"
	"github.com/open-cli-collective/tint-cli/pkg/markup"
)

type tagsOptions struct {
	category string
	globals  cmdutil.Globals
	out      io.Writer // For testing; defaults to os.Stdout
}

// NewCmdTags creates the tags command.
func NewCmdTags() *cobra.Command {
	opts := &tagsOptions{}

	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"ls"},
		Short:   "List the tags markup understands",
		Long: `List every registered tag with its aliases, the category a close tag
matches on, and how many arguments it takes.`,
		Example: `  # All tags
  tint tags

  # Only color tags, as JSON
  tint tags --category color -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.globals = cmdutil.GlobalFlags(cmd)
			return runTags(opts)
		},
	}

	cmd.Flags().StringVar(&opts.category, "category", "", "Only list tags in this category")

	return cmd
}

func runTags(opts *tagsOptions) error {
	cfg, err := cmdutil.LoadConfig(opts.globals.ConfigPath)
	if err != nil {
		return err
	}
	format, err := cmdutil.OutputFormat(opts.globals, cfg)
	if err != nil {
		return err
	}

	renderer := view.NewRenderer(format, opts.globals.NoColor)
	if opts.out != nil {
		renderer.SetWriter(opts.out)
	} else {
		renderer.SetWriter(os.Stdout)
	}

	var rows [][]string
	for _, def := range markup.Tags() {
		if opts.category != "" && def.Category != opts.category {
			continue
		}
		rows = append(rows, []string{def.Name, strings.Join(def.Aliases, ","), def.Category, def.Arity()})
	}

	if len(rows) == 0 {
		renderer.RenderText("No tags found.")
		return nil
	}

	renderer.RenderTable([]string{"NAME", "ALIASES", "CATEGORY", "ARGS"}, rows)
	return nil
}
