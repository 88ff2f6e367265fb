package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallAndUninstall(t *testing.T) {
	configPath := t.TempDir()

	out, err := runCommand(t, newInstallCmd(),
		"stripe", "--config-path", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Installed connector stripe")

	docsPath := filepath.Join(configPath, "connectors", "stripe", "docs.md")
	data, err := os.ReadFile(docsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Stripe")

	out, err = runCommand(t, newUninstallCmd(),
		"stripe", "--config-path", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Uninstalled connector stripe")

	_, err = os.Stat(filepath.Join(configPath, "connectors", "stripe"))
	assert.True(t, os.IsNotExist(err))
}

func TestInstallUnknownConnector(t *testing.T) {
	configPath := t.TempDir()

	_, err := runCommand(t, newInstallCmd(),
		"acme", "--config-path", configPath)
	assert.Error(t, err)
}
