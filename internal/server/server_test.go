package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"connecthub/internal/auth"
	"connecthub/internal/config"
	"connecthub/internal/connector"
	"connecthub/internal/credential"
	"connecthub/internal/oauth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	root    string
	store   *credential.Store
	docs    *connector.DocCache
	states  *oauth.StateStore
	server  *Server
	handler http.Handler
}

// newFixture builds a dashboard server over a temp connector root. A nil
// lookup uses the built-in registry providers (real endpoints, no exchange).
func newFixture(t *testing.T, lookup oauth.ProviderLookup) *fixture {
	t.Helper()

	root := t.TempDir()
	store := credential.NewStore(root)
	docs := connector.NewDocCache(connector.NewDocReader(root))
	states := oauth.NewStateStore()

	var flow *oauth.Flow
	var ref *oauth.Refresher
	if lookup == nil {
		flow = oauth.NewFlow(store, states)
		ref = oauth.NewRefresher(store)
	} else {
		flow = oauth.NewFlowWithLookup(store, states, lookup)
		ref = oauth.NewRefresherWithLookup(store, lookup)
	}

	srv := New(Options{
		Dashboard:     config.DashboardConfig{Host: "localhost", Port: 7777},
		ConnectorRoot: root,
		Docs:          docs,
		Store:         store,
		Agg:           auth.NewAggregator(docs, store),
		Flow:          flow,
		Refresher:     ref,
	})

	return &fixture{
		root:    root,
		store:   store,
		docs:    docs,
		states:  states,
		server:  srv,
		handler: srv.Handler(),
	}
}

func (f *fixture) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestSecurityHeaders(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/api/connectors", "")

	assert.Equal(t, "http://localhost:7777", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDUniquePerRequest(t *testing.T) {
	f := newFixture(t, nil)

	first := f.do(t, http.MethodGet, "/api/connectors", "").Header().Get("X-Request-ID")
	second := f.do(t, http.MethodGet, "/api/connectors", "").Header().Get("X-Request-ID")
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestOptionsPreflight(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodOptions, "/api/connectors/gmail/key", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestListConnectors(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/api/connectors", "")

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	require.NotEmpty(t, list)

	names := make(map[string]map[string]any)
	for _, item := range list {
		names[item["name"].(string)] = item
	}
	require.Contains(t, names, "gmail")
	require.Contains(t, names, "stripe")

	gmail := names["gmail"]
	assert.Equal(t, "Gmail", gmail["displayName"])
	assert.Equal(t, false, gmail["installed"])
	authInfo := gmail["auth"].(map[string]any)
	assert.Equal(t, false, authInfo["configured"])
}

func TestGetConnectorValidation(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/connectors/Bad.Name", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/connectors/acme", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveKeyValidation(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/connectors/Bad.Name/key", `{"key":"k"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/connectors/stripe/key", `{"key":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing 'key'")

	rec = f.do(t, http.MethodPost, "/api/connectors/stripe/key", `{not json`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSaveKeyCustomField(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/connectors/stripe/key",
		`{"key":"v1","field":"customField"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	profile := f.store.LoadProfile("stripe", "")
	assert.Equal(t, "v1", profile["customField"])
}

func TestKeyLifecycleEndToEnd(t *testing.T) {
	f := newFixture(t, nil)

	// Unknown connector with no files on disk.
	rec := f.do(t, http.MethodGet, "/api/connectors/acme", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Storing a key creates the connector state.
	rec = f.do(t, http.MethodPost, "/api/connectors/acme/key", `{"key":"k1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, true, body["success"])

	rec = f.do(t, http.MethodGet, "/api/connectors/acme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[map[string]any](t, rec)
	authInfo := detail["auth"].(map[string]any)
	assert.Equal(t, "apikey", authInfo["type"])
	assert.Equal(t, true, authInfo["configured"])
}

func TestRefreshEndpoint(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/connectors/Bad.Name/refresh", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No refresh token stored: reported failure, not a crash.
	rec = f.do(t, http.MethodPost, "/api/connectors/gmail/refresh", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	result := decode[map[string]any](t, rec)
	assert.Equal(t, false, result["success"])
	assert.Contains(t, result["error"], "no refresh token")
}

func TestUnknownAPIPathIsJSON404(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/bogus", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestSPAFallback(t *testing.T) {
	dist := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dist, "index.html"),
		[]byte("<html>dashboard</html>"), 0644))

	f := newFixture(t, nil)
	f.server.dist = dist
	f.handler = f.server.Handler()

	rec := f.do(t, http.MethodGet, "/connectors/gmail", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dashboard")

	// API paths never fall back to the SPA.
	rec = f.do(t, http.MethodGet, "/api/bogus", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
