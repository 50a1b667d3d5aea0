package root

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/tint-cli/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range config.Keys() {
		t.Setenv(config.EnvVar(key), "")
	}

	cmd := NewCmdRoot()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestNewCmdRoot_Subcommands(t *testing.T) {
	cmd := NewCmdRoot()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"init", "render", "tree", "strip", "escape", "convert", "gradient", "tags", "config", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestNewCmdRoot_GlobalFlags(t *testing.T) {
	cmd := NewCmdRoot()

	for name, def := range map[string]string{"config": "", "output": "table", "no-color": "false", "verbose": "0"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, def, flag.DefValue, name)
	}
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tint version dev"))
}

func TestRoot_InvalidOutput(t *testing.T) {
	_, err := execute(t, "tags", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestRoot_Completion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "tint")
}

func TestRoot_OutputValueCompletion(t *testing.T) {
	out, err := execute(t, "__complete", "tags", "--output", "")
	require.NoError(t, err)
	for _, format := range []string{"table", "json", "yaml", "plain"} {
		assert.Contains(t, out, format)
	}
}
