package oauth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"connecthub/internal/credential"
	"connecthub/pkg/logging"
)

// expiryMargin is how close to expiry a cached access token is considered
// stale. Matches the refresh buffer the providers themselves recommend.
const expiryMargin = 60 * time.Second

// RefreshResult reports the outcome of a refresh-token grant. A connector
// that never completed an OAuth flow yields Success=false with a descriptive
// error; that is the expected, reported outcome, not a fatal one.
type RefreshResult struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"accessToken,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Refresher performs refresh-token grants against a connector's provider and
// keeps the credential store current.
type Refresher struct {
	store  *credential.Store
	lookup ProviderLookup
}

// NewRefresher creates a refresher resolving providers from the built-in
// registry.
func NewRefresher(store *credential.Store) *Refresher {
	return &Refresher{store: store, lookup: RegistryLookup}
}

// NewRefresherWithLookup creates a refresher with a custom provider lookup.
func NewRefresherWithLookup(store *credential.Store, lookup ProviderLookup) *Refresher {
	return &Refresher{store: store, lookup: lookup}
}

// NeedsRefresh reports whether the cached access token is missing, expired,
// or about to expire.
func (r *Refresher) NeedsRefresh(name string) bool {
	tokens := r.store.LoadTokens(name)
	if tokens.AccessToken == "" {
		return true
	}
	if tokens.Expiry.IsZero() {
		return false
	}
	return time.Now().Add(expiryMargin).After(tokens.Expiry)
}

// Refresh performs a refresh-token grant for a connector and persists the new
// access token and expiry.
func (r *Refresher) Refresh(ctx context.Context, name string) RefreshResult {
	tokens := r.store.LoadTokens(name)
	if tokens.RefreshToken == "" {
		return RefreshResult{
			Success: false,
			Error:   fmt.Sprintf("no refresh token stored for %s; complete the OAuth flow first", name),
		}
	}

	provider, ok := r.lookup(name)
	if !ok {
		return RefreshResult{
			Success: false,
			Error:   fmt.Sprintf("connector %s does not support OAuth", name),
		}
	}

	client := r.store.OAuthConfig(name)
	if client.ClientID == "" || client.ClientSecret == "" {
		return RefreshResult{
			Success: false,
			Error:   fmt.Sprintf("no OAuth client credentials configured for %s", name),
		}
	}

	cfg := &oauth2.Config{
		ClientID:     client.ClientID,
		ClientSecret: client.ClientSecret,
		Endpoint:     provider.Endpoint,
	}

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	refreshed, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: tokens.RefreshToken}).Token()
	if err != nil {
		logging.Error("OAuth", err, "Token refresh failed for %s", name)
		return RefreshResult{Success: false, Error: providerErrorText(err)}
	}

	// Providers may rotate the refresh token; keep the old one when they
	// don't.
	newRefresh := refreshed.RefreshToken
	if newRefresh == "" {
		newRefresh = tokens.RefreshToken
	}

	if err := r.store.SaveTokens(name, credential.Tokens{
		AccessToken:  refreshed.AccessToken,
		RefreshToken: newRefresh,
		Expiry:       refreshed.Expiry,
	}); err != nil {
		logging.Error("OAuth", err, "Failed to persist refreshed tokens for %s", name)
		return RefreshResult{Success: false, Error: err.Error()}
	}

	logging.Info("OAuth", "Refreshed access token for %s", name)
	return RefreshResult{Success: true, AccessToken: refreshed.AccessToken}
}
