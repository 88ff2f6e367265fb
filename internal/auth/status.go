package auth

import (
	"os"
	"strings"
	"time"

	"connecthub/internal/connector"
	"connecthub/internal/credential"
)

// secretFields are the profile keys recognized as holding a usable static
// credential.
var secretFields = []string{"apiKey", "accessToken", "token"}

// Status is the composed authentication read model for one connector.
type Status struct {
	Type            Type               `json:"type"`
	Configured      bool               `json:"configured"`
	EnvVars         []connector.EnvVar `json:"envVars"`
	HasRefreshToken bool               `json:"hasRefreshToken,omitempty"`
	TokenExpiry     *time.Time         `json:"tokenExpiry,omitempty"`
}

// Aggregator composes the doc reader, classifier and credential store into a
// single per-connector status view.
type Aggregator struct {
	docs  *connector.DocCache
	store *credential.Store
}

// NewAggregator creates an aggregator over the given doc cache and store.
func NewAggregator(docs *connector.DocCache, store *credential.Store) *Aggregator {
	return &Aggregator{docs: docs, store: store}
}

// Status computes the authentication status for a connector. Environment
// variable presence is evaluated fresh on every call; operators and tests
// change the environment between calls.
func (a *Aggregator) Status(name string) Status {
	doc := a.docs.Get(name)
	authType := Classify(doc)

	status := Status{
		Type:    authType,
		EnvVars: resolveEnvVars(doc.EnvVars),
	}

	switch authType {
	case TypeOAuth:
		tokens := a.store.LoadTokens(name)
		// Env var presence alone does not make an OAuth connector
		// configured; only a completed flow does.
		status.Configured = tokens.AccessToken != ""
		status.HasRefreshToken = tokens.RefreshToken != ""
		status.TokenExpiry = a.store.TokenExpiry(name)
	default:
		status.Configured = a.keyConfigured(name, status.EnvVars)
	}

	return status
}

// keyConfigured reports whether an apikey/bearer connector has a usable
// credential: any recognized secret field in the resolved profile, or any of
// its environment variables set.
func (a *Aggregator) keyConfigured(name string, envVars []connector.EnvVar) bool {
	profile := a.store.LoadProfile(name, "")
	for _, field := range secretFields {
		if v, ok := profile[field].(string); ok && v != "" {
			return true
		}
	}

	for _, ev := range envVars {
		if ev.Set {
			return true
		}
	}

	// Connectors without documented env vars still honor the conventional
	// <NAME>_API_KEY variable.
	if len(envVars) == 0 {
		if _, ok := os.LookupEnv(ConventionalEnvVar(name)); ok {
			return true
		}
	}

	return false
}

// ConventionalEnvVar returns the fallback environment variable name for a
// connector, e.g. "google-calendar" -> "GOOGLE_CALENDAR_API_KEY".
func ConventionalEnvVar(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_")) + "_API_KEY"
}

// resolveEnvVars copies the declared descriptors with Set populated from the
// current process environment.
func resolveEnvVars(declared []connector.EnvVar) []connector.EnvVar {
	if len(declared) == 0 {
		return nil
	}
	resolved := make([]connector.EnvVar, len(declared))
	for i, ev := range declared {
		_, set := os.LookupEnv(ev.Variable)
		resolved[i] = connector.EnvVar{
			Variable:    ev.Variable,
			Description: ev.Description,
			Set:         set,
		}
	}
	return resolved
}
