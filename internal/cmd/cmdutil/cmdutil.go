// Package cmdutil holds helpers shared by tint commands.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/tint-cli/internal/config"
	"github.com/open-cli-collective/tint-cli/internal/view"
	"github.com/open-cli-collective/tint-cli/pkg/markup"
)

// ErrNoInput is returned when a command has neither arguments nor piped input.
var ErrNoInput = errors.New("no input: pass markup as arguments or pipe it on stdin")

// Globals holds the root persistent flags.
type Globals struct {
	ConfigPath    string
	Output        string
	OutputChanged bool
	NoColor       bool
}

// GlobalFlags reads the root persistent flags from cmd.
func GlobalFlags(cmd *cobra.Command) Globals {
	var g Globals
	g.ConfigPath, _ = cmd.Flags().GetString("config")
	g.Output, _ = cmd.Flags().GetString("output")
	g.OutputChanged = cmd.Flags().Changed("output")
	g.NoColor, _ = cmd.Flags().GetBool("no-color")
	return g
}

// LoadConfig loads and validates the config at path, or at the default path
// when path is empty.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'tint init' to configure)", err)
	}
	return cfg, nil
}

// OutputFormat picks the output format: an explicit --output wins over the
// configured default, which wins over the flag default.
func OutputFormat(g Globals, cfg *config.Config) (view.Format, error) {
	format := g.Output
	if !g.OutputChanged && cfg != nil && cfg.OutputFormat != "" {
		format = cfg.OutputFormat
	}
	if err := view.ValidateFormat(format); err != nil {
		return "", err
	}
	if format == "" {
		return view.FormatTable, nil
	}
	return view.Format(format), nil
}

// IsTerminal reports whether stdin is an interactive terminal.
func IsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ReadInput returns args joined by spaces, or all of stdin when there are
// no args. A nil stdin reads os.Stdin unless it is a terminal. One trailing
// newline is dropped from piped input.
func ReadInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if stdin == nil {
		if IsTerminal() {
			return "", ErrNoInput
		}
		stdin = os.Stdin
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

// ParserFlags are the parse-policy flags shared by render and tree.
type ParserFlags struct {
	Strict           bool
	RequireClosed    bool
	Placeholders     []string
	PlaceholdersFile string
}

// Register adds the parser flags to cmd.
func (f *ParserFlags) Register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.Strict, "strict", false, "Fail on any markup error instead of keeping bad tags as text")
	cmd.Flags().BoolVar(&f.RequireClosed, "require-closed", false, "Fail when tags are left open at the end of input")
	cmd.Flags().StringArrayVarP(&f.Placeholders, "placeholder", "p", nil, "Text placeholder as name=value (repeatable)")
	cmd.Flags().StringVar(&f.PlaceholdersFile, "placeholders", "", "JSON/JSONC file of placeholders")
}

// NewParser builds a parser from the config with flag overrides applied.
// Lenient-mode diagnostics are logged as warnings.
func (f *ParserFlags) NewParser(cfg *config.Config, logger zerolog.Logger) *markup.Parser {
	opts := cfg.ParserOptions(logger)
	opts = append(opts,
		markup.WithStrict(cfg.Strict || f.Strict),
		markup.WithRequireClosedTags(cfg.RequireClosedTags || f.RequireClosed),
		markup.WithErrorHandler(func(msg string) {
			logger.Warn().Msg(msg)
		}),
	)
	return markup.New(opts...)
}

// LoadPlaceholders reads the placeholders file, if any, then applies the
// name=value pairs on top.
func (f *ParserFlags) LoadPlaceholders(cfg *config.Config, p *markup.Parser) (markup.Placeholders, error) {
	placeholders := markup.Placeholders{}

	path := f.PlaceholdersFile
	if path == "" {
		path = cfg.PlaceholdersFile
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read placeholders file: %w", err)
		}
		placeholders, err = markup.LoadPlaceholders(data, p)
		if err != nil {
			return nil, fmt.Errorf("failed to load placeholders from %s: %w", path, err)
		}
	}

	for _, pair := range f.Placeholders {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid placeholder %q: expected name=value", pair)
		}
		placeholders = placeholders.With(name, value)
	}

	return placeholders, nil
}
