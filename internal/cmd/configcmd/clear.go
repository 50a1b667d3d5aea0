package configcmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/tint-cli/internal/config"
	"github.com/open-cli-collective/tint-cli/internal/view"
)

type clearOptions struct {
	path    string
	noColor bool
	out     io.Writer // For testing; defaults to os.Stdout
}

// NewCmdClear creates the config clear command.
func NewCmdClear() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove stored configuration",
		Long:  `Delete the tint configuration file. Environment variables will still be used if set.`,
		Example: `  # Clear config
  tint config clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runClear(&clearOptions{path: configPath(cmd), noColor: noColor})
		},
	}

	return cmd
}

func runClear(opts *clearOptions) error {
	out := opts.out
	if out == nil {
		out = os.Stdout
	}
	v := view.NewRenderer(view.FormatTable, opts.noColor)
	v.SetWriter(out)

	err := os.Remove(opts.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove config file: %w", err)
	}

	if os.IsNotExist(err) {
		v.Success("No config file to remove")
	} else {
		v.Success("Configuration cleared from " + opts.path)
	}

	var activeVars []string
	for _, key := range config.Keys() {
		if name := config.EnvVar(key); os.Getenv(name) != "" {
			activeVars = append(activeVars, name)
		}
	}

	if len(activeVars) > 0 {
		dim := color.New(color.Faint)
		_, _ = dim.Fprintf(out, "\nNote: Environment variables will still be used: %s\n", strings.Join(activeVars, ", "))
	}

	return nil
}
