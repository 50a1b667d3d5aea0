// Package convert provides the convert command.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/tint-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/tint-cli/internal/logging"
	"github.com/open-cli-collective/tint-cli/pkg/markup"
)

// Source formats accepted by --from.
const (
	FromMarkdown = "markdown"
	FromHTML     = "html"
)

type convertOptions struct {
	from  string
	file  string
	stdin io.Reader // For testing; defaults to os.Stdin
	out   io.Writer // For testing; defaults to os.Stdout
}

// NewCmdConvert creates the convert command.
func NewCmdConvert() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert markdown or HTML to markup",
		Long: `Convert a markdown or HTML document into tint markup.

The source is read from the file argument, or stdin when none is given.
Without --from, files ending in .html or .htm are treated as HTML and
everything else as markdown.`,
		Example: `  # Convert a README
  tint convert README.md

  # Convert HTML from stdin and render it
  curl -s https://example.com | tint convert --from html | tint render`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.file = args[0]
			}
			return runConvert(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.from, "from", "f", "", "Source format: markdown, html")

	return cmd
}

func runConvert(opts *convertOptions) error {
	logger := logging.For("convert")

	from := strings.ToLower(opts.from)
	if from == "" {
		from = detectFormat(opts.file)
	}
	if from != FromMarkdown && from != FromHTML {
		return fmt.Errorf("invalid source format %q (valid: %s, %s)", opts.from, FromMarkdown, FromHTML)
	}

	source, err := readSource(opts)
	if err != nil {
		return err
	}

	var converted string
	switch from {
	case FromHTML:
		converted, err = markup.FromHTML(source)
	default:
		converted, err = markup.FromMarkdown([]byte(source))
	}
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", from, err)
	}
	logger.Debug().Str("from", from).Int("bytes", len(source)).Msg("Converted")

	out := opts.out
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintln(out, converted)
	return err
}

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return FromHTML
	}
	return FromMarkdown
}

func readSource(opts *convertOptions) (string, error) {
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}
	return cmdutil.ReadInput(nil, opts.stdin)
}
