// Package gradient provides the gradient command.
package gradient

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/tint-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/tint-cli/internal/view"
	"github.com/open-cli-collective/tint-cli/pkg/markup"
)

type gradientOptions struct {
	colors  []string
	phase   float64
	text    string
	rainbow bool
	globals cmdutil.Globals
	out     io.Writer // For testing; defaults to os.Stdout
}

// NewCmdGradient creates the gradient command.
func NewCmdGradient() *cobra.Command {
	opts := &gradientOptions{}

	cmd := &cobra.Command{
		Use:   "gradient [color...]",
		Short: "Show the colors a gradient or rainbow produces",
		Long: `Compute the colors of a gradient the same way <gradient> does.

Without --text the evenly spaced stops are listed. With --text each
character is listed with the color it receives. Colors may be palette
names, #rrggbb or any CSS color; no colors selects white to black.`,
		Example: `  # Stops of a three-color gradient
  tint gradient red gold '#00ff00'

  # Per-character colors, shifted halfway
  tint gradient red blue --text "Hello" --phase 0.5

  # Rainbow colors
  tint gradient --rainbow --text "Hello"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.colors = args
			opts.globals = cmdutil.GlobalFlags(cmd)
			return runGradient(opts)
		},
	}

	cmd.Flags().Float64Var(&opts.phase, "phase", 0, "Phase shift: -1 to 1 for gradients, whole radians for --rainbow")
	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "Text to color one character at a time")
	cmd.Flags().BoolVar(&opts.rainbow, "rainbow", false, "Use the rainbow instead of a gradient")

	return cmd
}

func runGradient(opts *gradientOptions) error {
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

	if opts.rainbow {
		if len(opts.colors) > 0 {
			return fmt.Errorf("--rainbow does not take colors")
		}
		if opts.phase != math.Trunc(opts.phase) {
			return fmt.Errorf("rainbow phase must be a whole number, got %v", opts.phase)
		}
		if opts.text == "" {
			return fmt.Errorf("--rainbow requires --text")
		}
		renderCharacters(renderer, opts.text, markup.Rainbow{Phase: int(opts.phase)})
		return nil
	}

	stops := make([]markup.Color, 0, len(opts.colors))
	for _, s := range opts.colors {
		c, err := markup.ParseColor(s)
		if err != nil {
			return fmt.Errorf("invalid color %q: %w", s, err)
		}
		stops = append(stops, c)
	}

	g, err := markup.NewGradient(stops, float32(opts.phase))
	if err != nil {
		return err
	}

	if opts.text != "" {
		renderCharacters(renderer, opts.text, g)
		return nil
	}

	var rows [][]string
	for _, stop := range g.Stops() {
		rows = append(rows, []string{
			strconv.FormatFloat(float64(stop.Position), 'f', -1, 32),
			stop.Color.String(),
			stop.Color.Hex(),
		})
	}
	renderer.RenderTable([]string{"POSITION", "COLOR", "HEX"}, rows)
	return nil
}

func renderCharacters(renderer *view.Renderer, text string, c markup.Colorizer) {
	colors := c.Colors(text)
	var rows [][]string
	i := 0
	for _, r := range text {
		rows = append(rows, []string{strconv.Itoa(i), string(r), colors[i].String(), colors[i].Hex()})
		i++
	}
	renderer.RenderTable([]string{"INDEX", "CHAR", "COLOR", "HEX"}, rows)
}
