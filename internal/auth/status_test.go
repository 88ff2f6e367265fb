package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"connecthub/internal/connector"
	"connecthub/internal/credential"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	root  string
	docs  *connector.DocCache
	store *credential.Store
	agg   *Aggregator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	docs := connector.NewDocCache(connector.NewDocReader(root))
	store := credential.NewStore(root)
	return &fixture{
		root:  root,
		docs:  docs,
		store: store,
		agg:   NewAggregator(docs, store),
	}
}

func (f *fixture) writeDoc(t *testing.T, name, content string) {
	t.Helper()
	dir := filepath.Join(f.root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs.md"), []byte(content), 0644))
	f.docs.Invalidate(name)
}

const bearerDoc = `## Authentication

Uses a Bearer token.

## Environment Variables

| Variable | Description |
| --- | --- |
| STRIPE_API_KEY | Secret key |
`

const oauthDoc = `## Authentication

Uses OAuth 2.0 authorization code flow with offline access.

## Environment Variables

| Variable | Description |
| --- | --- |
| GMAIL_CLIENT_ID | OAuth client ID |
| GMAIL_CLIENT_SECRET | OAuth client secret |
`

func TestStatusUndocumentedConnector(t *testing.T) {
	f := newFixture(t)

	status := f.agg.Status("acme")
	assert.Equal(t, TypeAPIKey, status.Type)
	assert.False(t, status.Configured)
	assert.Empty(t, status.EnvVars)
}

func TestStatusKeyConnectorConfiguredByProfile(t *testing.T) {
	f := newFixture(t)
	f.writeDoc(t, "stripe", bearerDoc)

	assert.False(t, f.agg.Status("stripe").Configured)

	require.NoError(t, f.store.SaveKey("stripe", "sk_test_123", ""))

	status := f.agg.Status("stripe")
	assert.Equal(t, TypeBearer, status.Type)
	assert.True(t, status.Configured)
}

func TestStatusKeyConnectorConfiguredByEnvVar(t *testing.T) {
	f := newFixture(t)
	f.writeDoc(t, "stripe", bearerDoc)

	t.Setenv("STRIPE_API_KEY", "sk_env")

	status := f.agg.Status("stripe")
	assert.True(t, status.Configured)
	require.Len(t, status.EnvVars, 1)
	assert.True(t, status.EnvVars[0].Set)
}

func TestStatusEnvVarsEvaluatedFresh(t *testing.T) {
	f := newFixture(t)
	f.writeDoc(t, "stripe", bearerDoc)

	t.Setenv("STRIPE_API_KEY", "sk_env")
	status := f.agg.Status("stripe")
	require.Len(t, status.EnvVars, 1)
	assert.True(t, status.EnvVars[0].Set)

	require.NoError(t, os.Unsetenv("STRIPE_API_KEY"))
	status = f.agg.Status("stripe")
	require.Len(t, status.EnvVars, 1)
	assert.False(t, status.EnvVars[0].Set)
	assert.False(t, status.Configured)
}

func TestStatusConventionalEnvVarFallback(t *testing.T) {
	f := newFixture(t)
	// No docs at all: apikey type, conventional env var applies.

	t.Setenv("ACME_API_KEY", "k")
	assert.True(t, f.agg.Status("acme").Configured)
}

func TestStatusOAuthRequiresAccessToken(t *testing.T) {
	f := newFixture(t)
	f.writeDoc(t, "gmail", oauthDoc)

	// Env vars alone do not count for OAuth connectors.
	t.Setenv("GMAIL_CLIENT_ID", "id")
	t.Setenv("GMAIL_CLIENT_SECRET", "secret")

	status := f.agg.Status("gmail")
	assert.Equal(t, TypeOAuth, status.Type)
	assert.False(t, status.Configured)
	assert.False(t, status.HasRefreshToken)
	assert.Nil(t, status.TokenExpiry)

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, f.store.SaveTokens("gmail", credential.Tokens{
		AccessToken:  "at",
		RefreshToken: "rt",
		Expiry:       expiry,
	}))

	status = f.agg.Status("gmail")
	assert.True(t, status.Configured)
	assert.True(t, status.HasRefreshToken)
	require.NotNil(t, status.TokenExpiry)
	assert.WithinDuration(t, expiry, *status.TokenExpiry, time.Second)
}
