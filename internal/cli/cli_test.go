package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthErrorsUnwrap(t *testing.T) {
	var required *AuthRequiredError
	err := error(&AuthRequiredError{Connector: "gmail"})
	assert.True(t, errors.As(err, &required))
	assert.Contains(t, err.Error(), "gmail")

	var failed *AuthFailedError
	err = &AuthFailedError{Connector: "gmail", Reason: "invalid_grant"}
	assert.True(t, errors.As(err, &failed))
	assert.Contains(t, err.Error(), "invalid_grant")

	err = &AuthFailedError{Connector: "gmail"}
	assert.Equal(t, "authentication failed for connector gmail", err.Error())
}

func TestParseOutputFormat(t *testing.T) {
	format, err := ParseOutputFormat("table")
	require.NoError(t, err)
	assert.Equal(t, OutputTable, format)

	format, err = ParseOutputFormat("json")
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, format)

	_, err = ParseOutputFormat("yaml")
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteJSON(&sb, map[string]string{"name": "gmail"}))
	assert.Contains(t, sb.String(), `"name": "gmail"`)
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "-", FormatExpiry(time.Time{}))
	assert.Contains(t, FormatExpiry(time.Now().Add(time.Hour)), "in ")
	assert.Contains(t, FormatExpiry(time.Now().Add(-time.Hour)), "expired")
}
