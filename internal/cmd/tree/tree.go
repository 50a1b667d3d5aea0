// Package tree provides the tree command.
package tree

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/tint-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/tint-cli/internal/logging"
	"github.com/open-cli-collective/tint-cli/internal/view"
	"github.com/open-cli-collective/tint-cli/pkg/markup"
)

type treeOptions struct {
	cmdutil.ParserFlags
	globals cmdutil.Globals
	args    []string
	stdin   io.Reader // For testing; defaults to os.Stdin
	out     io.Writer // For testing; defaults to os.Stdout
}

// NewCmdTree creates the tree command.
func NewCmdTree() *cobra.Command {
	opts := &treeOptions{}

	cmd := &cobra.Command{
		Use:   "tree [markup...]",
		Short: "Show the styled node tree of markup",
		Long: `Parse markup and print the resulting tree of styled nodes.

The table format prints an indented outline with each node's own style.
JSON and YAML print the full tree; plain prints the unstyled text.`,
		Example: `  # Outline
  tint tree "<red>Hi <bold>there"

  # Full tree as JSON
  tint tree -o json "<hover:show_text:'<green>tip'>hover me"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.globals = cmdutil.GlobalFlags(cmd)
			opts.args = args
			return runTree(opts)
		},
	}

	opts.ParserFlags.Register(cmd)

	return cmd
}

func runTree(opts *treeOptions) error {
	logger := logging.For("tree")
	defer logging.LogOperationStart(logger, "tree")()

	cfg, err := cmdutil.LoadConfig(opts.globals.ConfigPath)
	if err != nil {
		return err
	}
	format, err := cmdutil.OutputFormat(opts.globals, cfg)
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
	logger.Debug().Str("format", string(format)).Bool("strict", parser.Strict()).Msg("Dumping tree")

	renderer := view.NewRenderer(format, opts.globals.NoColor)
	if opts.out != nil {
		renderer.SetWriter(opts.out)
	} else {
		renderer.SetWriter(os.Stdout)
	}

	switch format {
	case view.FormatJSON, view.FormatYAML:
		return renderer.RenderValue(node)
	case view.FormatPlain:
		renderer.RenderText(node.PlainText())
		return nil
	}

	for _, line := range Outline(node) {
		renderer.RenderText(line)
	}
	return nil
}

// Outline describes n and its descendants one node per line, children
// indented under their parent. Each line shows the node's own style only.
func Outline(n *markup.Node) []string {
	var lines []string
	outline(n, "", &lines)
	return lines
}

func outline(n *markup.Node, indent string, lines *[]string) {
	parts := []string{n.Kind.String()}
	if n.Content != "" || n.IsLeaf() {
		parts = append(parts, strconv.Quote(n.Content))
	}
	parts = append(parts, StyleAttrs(n.Style)...)
	*lines = append(*lines, indent+strings.Join(parts, " "))

	for _, arg := range n.Args {
		*lines = append(*lines, indent+"  arg:")
		outline(arg, indent+"    ", lines)
	}
	for _, child := range n.Children {
		outline(child, indent+"  ", lines)
	}
}

// StyleAttrs lists the set properties of s as key=value pairs.
func StyleAttrs(s markup.Style) []string {
	var attrs []string
	if s.Color != nil {
		attrs = append(attrs, "color="+s.Color.String())
	}
	if s.Decorations != 0 {
		attrs = append(attrs, "decorations="+s.Decorations.String())
	}
	if s.Click != nil {
		attrs = append(attrs, fmt.Sprintf("click=%s:%s", s.Click.Action, strconv.Quote(s.Click.Value)))
	}
	if s.Hover != nil {
		var text string
		if s.Hover.Value != nil {
			text = s.Hover.Value.PlainText()
		}
		attrs = append(attrs, fmt.Sprintf("hover=%s:%s", s.Hover.Action, strconv.Quote(text)))
	}
	if s.Insertion != "" {
		attrs = append(attrs, "insertion="+strconv.Quote(s.Insertion))
	}
	if s.Font != nil {
		attrs = append(attrs, "font="+s.Font.String())
	}
	return attrs
}
