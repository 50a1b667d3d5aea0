// Package init provides the init command for tint.
package init

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/tint-cli/internal/config"
	"github.com/open-cli-collective/tint-cli/internal/logging"
	"github.com/open-cli-collective/tint-cli/internal/render"
	"github.com/open-cli-collective/tint-cli/internal/view"
	"github.com/open-cli-collective/tint-cli/pkg/markup"
)

// sampleMarkup is parsed and rendered to check a new configuration.
const sampleMarkup = "<gradient:gold:red>tint</gradient> <gray>is <green>ready</green>. Try <bold><click:suggest_command:'tint render'>tint render</click></bold></gray>"

type initOptions struct {
	path           string
	strict         bool
	profile        string
	nonInteractive bool
	noVerify       bool
	noColor        bool
	out            io.Writer // For testing; defaults to os.Stdout
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize tint configuration",
		Long: `Initialize tint with your preferred parser and output defaults.

This command will guide you through choosing strict or lenient parsing,
the nesting limit, the color profile and the default output format. The
configuration will be saved to ~/.config/tint/config.yml.

The new settings are checked by rendering a short sample unless
--no-verify is given.`,
		Example: `  # Interactive setup
  tint init

  # Write defaults without prompting
  tint init --yes --strict --profile ansi256`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.path, _ = cmd.Flags().GetString("config")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			if opts.path == "" {
				opts.path = config.DefaultConfigPath()
			}
			return runInit(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Start with strict parsing enabled")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "Color profile (auto, ascii, ansi, ansi256, truecolor)")
	cmd.Flags().BoolVarP(&opts.nonInteractive, "yes", "y", false, "Skip prompts and save the given values")
	cmd.Flags().BoolVar(&opts.noVerify, "no-verify", false, "Skip rendering the sample")

	return cmd
}

func runInit(opts *initOptions) error {
	out := opts.out
	if out == nil {
		out = os.Stdout
	}
	v := view.NewRenderer(view.FormatTable, opts.noColor)
	v.SetWriter(out)

	// Check if config already exists
	if _, err := os.Stat(opts.path); err == nil && !opts.nonInteractive {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", opts.path)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	cfg := config.Default()
	cfg.Strict = opts.strict
	if opts.profile != "" {
		cfg.ColorProfile = opts.profile
	}

	if !opts.nonInteractive {
		maxDepth := strconv.Itoa(cfg.MaxDepth)
		if err := newForm(cfg, &maxDepth).Run(); err != nil {
			return err
		}
		depth, err := strconv.Atoi(maxDepth)
		if err != nil {
			return fmt.Errorf("invalid max depth: %w", err)
		}
		cfg.MaxDepth = depth
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !opts.noVerify {
		sample, err := verifyConfig(cfg, out)
		if err != nil {
			v.Error("Sample render failed")
			return fmt.Errorf("sample render failed: %w", err)
		}
		v.RenderKeyValue("Sample", sample)
	}

	if err := cfg.Save(opts.path); err != nil {
		return err
	}

	fmt.Fprintln(out)
	v.Success("Configuration saved to " + opts.path)
	fmt.Fprintln(out, "\nYou're all set! Try running:")
	fmt.Fprintln(out, `  tint render "<rainbow>Hello, world!"`)
	fmt.Fprintln(out, "  tint tags")

	return nil
}

func newForm(cfg *config.Config, maxDepth *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Strict parsing").
				Description("Fail on unknown or malformed tags instead of keeping them as text").
				Value(&cfg.Strict),

			huh.NewConfirm().
				Title("Require closed tags").
				Description("Fail when a tag is still open at the end of the input").
				Value(&cfg.RequireClosedTags),

			huh.NewInput().
				Title("Maximum nesting depth").
				Description("Deeper markup is rejected").
				Value(maxDepth).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 {
						return fmt.Errorf("enter a whole number of at least 1")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color profile").
				Description("auto detects what your terminal supports").
				Options(huh.NewOptions(config.ColorProfiles()...)...).
				Value(&cfg.ColorProfile),

			huh.NewSelect[string]().
				Title("Default output format").
				Description("Used by tree, tags and gradient").
				Options(huh.NewOptions(view.ValidFormats()...)...).
				Value(&cfg.OutputFormat),

			huh.NewInput().
				Title("Placeholders file (optional)").
				Description("JSON or JSONC file of placeholders to load on every render").
				Placeholder("~/.config/tint/placeholders.jsonc").
				Value(&cfg.PlaceholdersFile),
		),
	)
}

// verifyConfig parses and renders the sample markup with cfg for out.
func verifyConfig(cfg *config.Config, out io.Writer) (string, error) {
	node, err := markup.New(cfg.ParserOptions(logging.For("init"))...).Parse(sampleMarkup, nil)
	if err != nil {
		return "", err
	}
	r, err := render.New(out, cfg.ColorProfile)
	if err != nil {
		return "", err
	}
	return r.Render(node), nil
}
