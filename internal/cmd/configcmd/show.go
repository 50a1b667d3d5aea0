package configcmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/tint-cli/internal/config"
)

type showOptions struct {
	path    string
	noColor bool
	out     io.Writer // For testing; defaults to os.Stdout
}

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective tint configuration and where each value comes from.`,
		Example: `  # Show current config
  tint config show

  # See an environment override
  TINT_STRICT=true tint config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(&showOptions{path: configPath(cmd), noColor: noColor})
		},
	}

	return cmd
}

func runShow(opts *showOptions) error {
	if opts.noColor {
		color.NoColor = true
	}
	out := opts.out
	if out == nil {
		out = os.Stdout
	}

	cfg, sources, err := config.LoadWithSources(opts.path)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	for _, key := range config.Keys() {
		_, _ = bold.Fprintf(out, "%-20s", key+":")
		value := cfg.Value(key)
		if value == "" {
			_, _ = dim.Fprint(out, "-")
		} else {
			fmt.Fprint(out, value)
		}
		_, _ = dim.Fprintf(out, "  (source: %s)\n", sources[key])
	}

	fmt.Fprintln(out)
	_, _ = dim.Fprintf(out, "Config file: %s\n", opts.path)
	if _, err := os.Stat(opts.path); err != nil {
		_, _ = dim.Fprintln(out, "(file not found)")
	}

	return nil
}
