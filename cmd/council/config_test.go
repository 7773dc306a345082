package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayCichocki/council/internal/config"
)

func writeProjectConfig(t *testing.T, content string) string {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	path := filepath.Join(cwd, config.ProjectConfigName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSetConfigKey_WritesOnlyUserValues(t *testing.T) {
	isolateConfig(t)
	writeProjectConfig(t, "council:\n  chairman: project-chair\n")
	t.Setenv("COUNCIL_TIMEOUTS_MODEL", "7s")

	userPath := config.GetUserConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0700))
	require.NoError(t, os.WriteFile(userPath, []byte("log:\n  level: info\n"), 0600))

	var out bytes.Buffer
	require.NoError(t, setConfigKey(&out, "display.color", "false"))
	assert.Equal(t, "Set display.color = false\n", out.String())

	saved, err := config.LoadFile(userPath)
	require.NoError(t, err)
	assert.False(t, saved.Display.Color)
	assert.Equal(t, "info", saved.Log.Level, "existing user values are kept")
	assert.Equal(t, config.Default().Council.Chairman, saved.Council.Chairman, "project values must not be copied")
	assert.Equal(t, config.Default().Timeouts.Model, saved.Timeouts.Model, "environment values must not be copied")
	assert.Equal(t, 120*time.Second, saved.Timeouts.Model)
}

func TestSetConfigKey_CreatesUserFile(t *testing.T) {
	isolateConfig(t)

	require.NoError(t, setConfigKey(&bytes.Buffer{}, "council.chairman", "gpt-5.1"))

	saved, err := config.LoadFile(config.GetUserConfigPath())
	require.NoError(t, err)
	assert.Equal(t, "gpt-5.1", saved.Council.Chairman)
}

func TestSetConfigKey_Invalid(t *testing.T) {
	isolateConfig(t)

	assert.Error(t, setConfigKey(&bytes.Buffer{}, "council.models", " , "))
	_, err := os.Stat(config.GetUserConfigPath())
	assert.True(t, os.IsNotExist(err), "nothing is saved when validation fails")
}

func TestDisplayConfigSources(t *testing.T) {
	isolateConfig(t)

	var out bytes.Buffer
	displayConfigSources(&out)
	assert.Contains(t, out.String(), "# user config: "+config.GetUserConfigPath()+" (not found)")
	assert.Contains(t, out.String(), "# project config: (none)")

	writeProjectConfig(t, "council:\n  chairman: x\n")
	out.Reset()
	displayConfigSources(&out)
	assert.Contains(t, out.String(), config.ProjectConfigName)
	assert.NotContains(t, out.String(), "(none)")
}

func TestConfigCmd_Args(t *testing.T) {
	assert.NoError(t, configCmd.ValidateArgs(nil))
	assert.NoError(t, configCmd.ValidateArgs([]string{"council.chairman"}))
	assert.NoError(t, configCmd.ValidateArgs([]string{"LOG.LEVEL", "debug"}))
	assert.Error(t, configCmd.ValidateArgs([]string{"files"}))
	assert.Error(t, configCmd.ValidateArgs([]string{"council.chairman", "a", "b"}))
}
