package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/cfgtools/patcher"
)

func writeTestConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSetupIncludeFlags(t *testing.T) {
	fs, flags := SetupIncludeFlags()

	t.Run("default values", func(t *testing.T) {
		assert.False(t, flags.Remove, "expected Remove to be false by default")
		assert.False(t, flags.DryRun, "expected DryRun to be false by default")
		assert.Equal(t, FormatText, flags.Format)
	})

	t.Run("parse flags", func(t *testing.T) {
		args := []string{"--remove", "--dry-run", "--format", "json", "printer.cfg"}
		require.NoError(t, fs.Parse(args))

		assert.True(t, flags.Remove)
		assert.True(t, flags.DryRun)
		assert.Equal(t, "json", flags.Format)
		assert.Equal(t, "printer.cfg", fs.Arg(0))
	})
}

func TestHandleInclude(t *testing.T) {
	path := writeTestConfig(t, "printer.cfg", "[printer]\nkinematics: corexy\n")

	require.NoError(t, HandleInclude([]string{path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), patcher.IncludeDirective)
}

func TestHandleInclude_Remove(t *testing.T) {
	path := writeTestConfig(t, "printer.cfg", "[printer]\n"+patcher.IncludeDirective+"\n")

	require.NoError(t, HandleInclude([]string{"--remove", path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), patcher.IncludeDirective)
}

func TestHandleInclude_NoArgs(t *testing.T) {
	assert.Error(t, HandleInclude([]string{}))
}

func TestHandleInclude_Help(t *testing.T) {
	assert.NoError(t, HandleInclude([]string{"--help"}))
}

func TestHandleInclude_InvalidFormat(t *testing.T) {
	assert.Error(t, HandleInclude([]string{"--format", "xml", "printer.cfg"}))
}

func TestHandleInclude_MissingFile(t *testing.T) {
	assert.Error(t, HandleInclude([]string{"/nonexistent/printer.cfg"}))
}
