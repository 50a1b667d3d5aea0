// Package rendercmd provides the render command.
package rendercmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/tint-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/tint-cli/internal/logging"
	"github.com/open-cli-collective/tint-cli/internal/render"
)

type renderOptions struct {
	cmdutil.ParserFlags
	profile    string
	configPath string
	noColor    bool
	args       []string
	stdin      io.Reader // For testing; defaults to os.Stdin
	out        io.Writer // For testing; defaults to os.Stdout
}

// NewCmdRender creates the render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [markup...]",
		Short: "Render markup as colored terminal text",
		Long: `Parse markup and print it with ANSI colors and styles.

Markup is read from the arguments, or from stdin when none are given.
Unknown or malformed tags are kept as text unless --strict is set.
Links from <click:open_url:...> become terminal hyperlinks where supported.`,
		Example: `  # Render a greeting
  tint render "<yellow>Hello <bold>world</bold>!"

  # Fill in placeholders
  tint render -p name=Alex "<green>Welcome, <name>"

  # Render from a file
  tint render < motd.txt

  # Force 256 colors
  tint render --profile ansi256 "<gradient:red:blue>smooth"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := cmdutil.GlobalFlags(cmd)
			opts.configPath = g.ConfigPath
			opts.noColor = g.NoColor
			opts.args = args
			return runRender(opts)
		},
	}

	opts.ParserFlags.Register(cmd)
	cmd.Flags().StringVar(&opts.profile, "profile", "", "Color profile: auto, ascii, ansi, ansi256, truecolor")

	return cmd
}

func runRender(opts *renderOptions) error {
	logger := logging.For("render")
	defer logging.LogOperationStart(logger, "render")()

	cfg, err := cmdutil.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	input, err := cmdutil.ReadInput(opts.args, opts.stdin)
	if err != nil {
		return err
	}

	parser := opts.NewParser(cfg, logger)
	placeholders, err := opts.LoadPlaceholders(cfg, parser)
	if err != nil {
		return err
	}

	node, err := parser.Parse(input, placeholders)
	if err != nil {
		return err
	}

	profile := opts.profile
	if profile == "" {
		profile = cfg.ColorProfile
	}
	if opts.noColor {
		profile = "ascii"
	}

	out := opts.out
	if out == nil {
		out = os.Stdout
	}
	renderer, err := render.New(out, profile)
	if err != nil {
		return err
	}

	logger.Debug().
		Str("profile", profile).
		Bool("strict", parser.Strict()).
		Int("leaves", len(node.Leaves())).
		Msg("Rendering")
	return renderer.Fprintln(node)
}
