package oauth

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"connecthub/internal/connector"
	"connecthub/internal/credential"
	"connecthub/pkg/logging"
)

// exchangeTimeout bounds outbound token-endpoint calls so a slow provider
// surfaces as a flow failure instead of hanging the server.
const exchangeTimeout = 15 * time.Second

// ProviderLookup resolves a connector name to its OAuth provider binding.
// Tests substitute a lookup pointing at a local token endpoint.
type ProviderLookup func(name string) (*connector.OAuthProvider, bool)

// RegistryLookup resolves providers from the built-in connector registry.
func RegistryLookup(name string) (*connector.OAuthProvider, bool) {
	def, ok := connector.Get(name)
	if !ok || def.OAuth == nil {
		return nil, false
	}
	return def.OAuth, true
}

// CallbackOutcome distinguishes the user-visible results of an OAuth
// callback. Invalid state is deliberately distinct from a generic failure:
// it implies a possible CSRF attempt or a stale link.
type CallbackOutcome string

const (
	CallbackSuccess      CallbackOutcome = "success"
	CallbackFailed       CallbackOutcome = "failed"
	CallbackInvalidState CallbackOutcome = "invalid_state"
	CallbackMissingCode  CallbackOutcome = "missing_code"
)

// CallbackResult is the outcome of handling an OAuth callback.
type CallbackResult struct {
	Outcome CallbackOutcome

	// ProviderError carries the provider's error string for failed
	// outcomes.
	ProviderError string
}

// Flow drives the authorization-code grant for connectors with a declared
// OAuth provider binding.
type Flow struct {
	store  *credential.Store
	states *StateStore
	lookup ProviderLookup
}

// NewFlow creates a flow controller over the given store and state store.
func NewFlow(store *credential.Store, states *StateStore) *Flow {
	return &Flow{
		store:  store,
		states: states,
		lookup: RegistryLookup,
	}
}

// NewFlowWithLookup creates a flow controller with a custom provider lookup.
func NewFlowWithLookup(store *credential.Store, states *StateStore, lookup ProviderLookup) *Flow {
	return &Flow{
		store:  store,
		states: states,
		lookup: lookup,
	}
}

// Available reports whether the authorization flow can be started for a
// connector: it needs a provider binding and stored client credentials.
func (f *Flow) Available(name string) bool {
	if _, ok := f.lookup(name); !ok {
		return false
	}
	client := f.store.OAuthConfig(name)
	return client.ClientID != "" && client.ClientSecret != ""
}

// AuthorizationURL builds the provider authorization URL for a connector and
// issues a state token for the callback. It returns "" when the connector has
// no provider binding or no stored client credentials, so callers can render
// a "not available" state.
func (f *Flow) AuthorizationURL(name, redirectURI string) string {
	provider, ok := f.lookup(name)
	if !ok {
		return ""
	}

	client := f.store.OAuthConfig(name)
	if client.ClientID == "" || client.ClientSecret == "" {
		return ""
	}

	state, err := f.states.Issue(name)
	if err != nil {
		logging.Error("OAuth", err, "Failed to issue state token for %s", name)
		return ""
	}

	cfg := f.config(client, provider, redirectURI)
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// HandleCallback processes the provider redirect for a connector. Outcomes
// are checked in order: provider error, state validation, missing code, then
// the code exchange. On success the returned tokens are persisted through
// the credential store.
func (f *Flow) HandleCallback(ctx context.Context, name, redirectURI string, query url.Values) CallbackResult {
	if providerErr := query.Get("error"); providerErr != "" {
		logging.Warn("OAuth", "Callback for %s returned provider error: %s", name, providerErr)
		return CallbackResult{Outcome: CallbackFailed, ProviderError: providerErr}
	}

	if !f.states.Validate(query.Get("state"), name) {
		return CallbackResult{Outcome: CallbackInvalidState}
	}

	code := query.Get("code")
	if code == "" {
		return CallbackResult{Outcome: CallbackMissingCode}
	}

	provider, ok := f.lookup(name)
	if !ok {
		return CallbackResult{Outcome: CallbackFailed, ProviderError: "connector does not support OAuth"}
	}

	client := f.store.OAuthConfig(name)
	cfg := f.config(client, provider, redirectURI)

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		logging.Error("OAuth", err, "Token exchange failed for %s", name)
		return CallbackResult{Outcome: CallbackFailed, ProviderError: providerErrorText(err)}
	}

	if err := f.store.SaveTokens(name, credential.Tokens{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}); err != nil {
		logging.Error("OAuth", err, "Failed to persist tokens for %s", name)
		return CallbackResult{Outcome: CallbackFailed, ProviderError: err.Error()}
	}

	logging.Info("OAuth", "Completed authorization flow for %s", name)
	return CallbackResult{Outcome: CallbackSuccess}
}

func (f *Flow) config(client credential.OAuthClient, provider *connector.OAuthProvider, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     client.ClientID,
		ClientSecret: client.ClientSecret,
		Endpoint:     provider.Endpoint,
		RedirectURL:  redirectURI,
		Scopes:       provider.Scopes,
	}
}

// providerErrorText extracts the provider's error description from a token
// endpoint failure.
func providerErrorText(err error) string {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.ErrorCode != "" {
			text := retrieveErr.ErrorCode
			if retrieveErr.ErrorDescription != "" {
				text += ": " + retrieveErr.ErrorDescription
			}
			return text
		}
		if body := strings.TrimSpace(string(retrieveErr.Body)); body != "" {
			return body
		}
	}
	return err.Error()
}
