package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connecthub/internal/cli"
	"connecthub/internal/credential"
)

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKeySet(t *testing.T) {
	configPath := t.TempDir()

	out, err := runCommand(t, newKeyCmd(),
		"set", "stripe", "sk-test", "--config-path", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Stored apiKey for connector stripe")

	store := credential.NewStore(configPath + "/connectors")
	assert.Equal(t, "sk-test", store.LoadProfile("stripe", "")["apiKey"])
}

func TestKeySetCustomField(t *testing.T) {
	configPath := t.TempDir()

	_, err := runCommand(t, newKeyCmd(),
		"set", "webflow", "tok-1", "--field", "siteToken", "--config-path", configPath)
	require.NoError(t, err)

	store := credential.NewStore(configPath + "/connectors")
	assert.Equal(t, "tok-1", store.LoadProfile("webflow", "")["siteToken"])
}

func TestKeySetInvalidName(t *testing.T) {
	configPath := t.TempDir()

	_, err := runCommand(t, newKeyCmd(),
		"set", "Bad.Name", "v", "--config-path", configPath)
	assert.Error(t, err)
}

func TestStatusUnconfiguredExitsAuthRequired(t *testing.T) {
	configPath := t.TempDir()

	_, err := runCommand(t, newStatusCmd(),
		"stripe", "--config-path", configPath)
	var authRequired *cli.AuthRequiredError
	require.True(t, errors.As(err, &authRequired))
	assert.Equal(t, ExitCodeAuthRequired, getExitCode(err))
}

func TestStatusConfiguredAfterKeySet(t *testing.T) {
	configPath := t.TempDir()

	_, err := runCommand(t, newKeyCmd(),
		"set", "stripe", "sk-test", "--config-path", configPath)
	require.NoError(t, err)

	out, err := runCommand(t, newStatusCmd(),
		"stripe", "--config-path", configPath, "--output", "json")
	require.NoError(t, err)

	var status map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, true, status["configured"])
}

func TestStatusAllJSON(t *testing.T) {
	configPath := t.TempDir()

	out, err := runCommand(t, newStatusCmd(),
		"--config-path", configPath, "--output", "json")
	require.NoError(t, err)

	var statuses map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &statuses))
	require.Contains(t, statuses, "gmail")
	require.Contains(t, statuses, "stripe")
	// No docs are installed, so everything classifies as apikey.
	assert.Equal(t, "apikey", statuses["stripe"]["type"])
	assert.Equal(t, false, statuses["stripe"]["configured"])
}

func TestListJSON(t *testing.T) {
	configPath := t.TempDir()

	out, err := runCommand(t, newListCmd(),
		"--output", "json", "--config-path", configPath)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.NotEmpty(t, rows)

	names := make(map[string]bool)
	for _, row := range rows {
		names[row["name"].(string)] = true
	}
	assert.True(t, names["gmail"])
	assert.True(t, names["stripe"])
}
