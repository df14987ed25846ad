package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInitCmd_WritesTemplate(t *testing.T) {
	// Given: an explicit config path in a temp dir
	path := filepath.Join(t.TempDir(), "agora.yaml")

	// When: running config init
	out, err := runCLI(t, "config", "init", "--config", path)

	// Then: the template is written verbatim
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "data:")
	assert.Contains(t, string(data), "rendered_topics:")
}

func TestConfigInitCmd_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agora.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data:\n  path: ./keep\n"), 0o644))

	_, err := runCLI(t, "config", "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// --force overwrites.
	_, err = runCLI(t, "config", "init", "--force", "--config", path)
	require.NoError(t, err)
}

func TestConfigShowCmd_MergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agora.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0o644))

	out, err := runCLI(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "port: 9999")
	// Defaults survive for unset fields.
	assert.Contains(t, out, "rendered_topics: 512")
}
