package credential

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"connecthub/internal/connector"
	"connecthub/pkg/logging"
)

const (
	// DefaultProfile is used when no current_profile marker exists.
	DefaultProfile = "default"

	// DefaultSecretField is the profile key SaveKey falls back to.
	DefaultSecretField = "apiKey"

	currentProfileFile = "current_profile"
	credentialsFile    = "credentials.json"
	tokensFile         = "tokens.json"
)

// OAuthClient holds the client credentials needed to start an OAuth flow.
// Missing values surface as empty strings, never as errors.
type OAuthClient struct {
	ClientID     string
	ClientSecret string
}

// Tokens is the cached OAuth token material for a connector.
type Tokens struct {
	AccessToken  string    `json:"accessToken,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	Expiry       time.Time `json:"tokenExpiry,omitempty"`
}

// Store reads and writes connector credentials under a per-user config root,
// transparently across the historical on-disk layouts. Every read degrades to
// "nothing configured" rather than failing; every write creates missing
// directories.
type Store struct {
	root string
}

// NewStore creates a store over the given connector root directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the connector root directory the store operates on.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) dir(name string) string {
	return filepath.Join(s.root, name)
}

// ActiveProfile resolves the profile name for a connector: the current_profile
// marker file when present, otherwise "default".
func (s *Store) ActiveProfile(name string) string {
	if !connector.ValidName(name) {
		return DefaultProfile
	}

	data, err := os.ReadFile(filepath.Join(s.dir(name), currentProfileFile))
	if err != nil {
		return DefaultProfile
	}

	profile := strings.TrimSpace(string(data))
	if profile == "" {
		return DefaultProfile
	}
	return profile
}

// SetActiveProfile writes the current_profile marker.
func (s *Store) SetActiveProfile(name, profile string) error {
	if !connector.ValidName(name) {
		return fmt.Errorf("invalid connector name %q", name)
	}
	if err := os.MkdirAll(s.dir(name), 0700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir(name), currentProfileFile), []byte(profile+"\n"), 0600)
}

// LoadProfile loads the profile for a connector. An empty profile argument
// resolves the active profile. Missing or corrupt files yield an empty
// Profile, never an error.
func (s *Store) LoadProfile(name, profile string) Profile {
	if !connector.ValidName(name) {
		return Profile{}
	}
	if profile == "" {
		profile = s.ActiveProfile(name)
	}

	dir := s.dir(name)
	for _, l := range layouts {
		if p, ok := l.tryRead(dir, profile); ok {
			return p
		}
	}
	return Profile{}
}

// SaveKey stores a single credential value in the connector's active profile,
// preserving every unrelated key already present. An empty field defaults to
// "apiKey". The profile is written back in the layout it was found in, or the
// flat layout when no profile existed yet.
func (s *Store) SaveKey(name, value, field string) error {
	if !connector.ValidName(name) {
		return fmt.Errorf("invalid connector name %q", name)
	}
	if field == "" {
		field = DefaultSecretField
	}
	return s.merge(name, Profile{field: value})
}

// SaveTokens caches OAuth token material in tokens.json and mirrors the
// access/refresh tokens into the active profile so key-based lookups see
// them too.
func (s *Store) SaveTokens(name string, tok Tokens) error {
	if !connector.ValidName(name) {
		return fmt.Errorf("invalid connector name %q", name)
	}

	dir := s.dir(name)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, tokensFile), data, 0600); err != nil {
		return err
	}

	fields := Profile{}
	if tok.AccessToken != "" {
		fields["accessToken"] = tok.AccessToken
	}
	if tok.RefreshToken != "" {
		fields["refreshToken"] = tok.RefreshToken
	}
	if !tok.Expiry.IsZero() {
		fields["tokenExpiry"] = tok.Expiry.Format(time.RFC3339)
	}
	if len(fields) == 0 {
		return nil
	}
	return s.merge(name, fields)
}

// merge loads the existing profile, overlays fields, and writes it back
// preserving the layout it was found in.
func (s *Store) merge(name string, fields Profile) error {
	profile := s.ActiveProfile(name)
	dir := s.dir(name)

	target := layouts[0]
	existing := Profile{}
	for _, l := range layouts {
		if p, ok := l.tryRead(dir, profile); ok {
			existing = p
			target = l
			break
		}
	}

	for k, v := range fields {
		existing[k] = v
	}

	if err := target.write(dir, profile, existing); err != nil {
		return fmt.Errorf("failed to write profile for %s: %w", name, err)
	}

	logging.Debug("Store", "Saved profile %s for connector %s", profile, name)
	return nil
}

// OAuthConfig resolves the OAuth client credentials for a connector.
// credentials.json at the connector root takes precedence over clientId and
// clientSecret fields embedded in the active profile. Missing values surface
// as empty strings.
func (s *Store) OAuthConfig(name string) OAuthClient {
	if !connector.ValidName(name) {
		return OAuthClient{}
	}

	if client, ok := s.readCredentialsFile(name); ok {
		return client
	}

	profile := s.LoadProfile(name, "")
	return OAuthClient{
		ClientID:     stringField(profile, "clientId", "client_id"),
		ClientSecret: stringField(profile, "clientSecret", "client_secret"),
	}
}

func (s *Store) readCredentialsFile(name string) (OAuthClient, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir(name), credentialsFile))
	if err != nil {
		return OAuthClient{}, false
	}

	var raw Profile
	if err := json.Unmarshal(data, &raw); err != nil {
		logging.Warn("Store", "Ignoring malformed credentials.json for %s: %v", name, err)
		return OAuthClient{}, false
	}

	client := OAuthClient{
		ClientID:     stringField(raw, "clientId", "client_id"),
		ClientSecret: stringField(raw, "clientSecret", "client_secret"),
	}
	if client.ClientID == "" && client.ClientSecret == "" {
		return OAuthClient{}, false
	}
	return client, true
}

// SaveOAuthConfig writes credentials.json at the connector root.
func (s *Store) SaveOAuthConfig(name string, client OAuthClient) error {
	if !connector.ValidName(name) {
		return fmt.Errorf("invalid connector name %q", name)
	}
	if err := os.MkdirAll(s.dir(name), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(map[string]string{
		"clientId":     client.ClientID,
		"clientSecret": client.ClientSecret,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir(name), credentialsFile), data, 0600)
}

// LoadTokens reads the cached OAuth token material, falling back to token
// fields embedded in the active profile. Absent or corrupt state yields the
// zero value.
func (s *Store) LoadTokens(name string) Tokens {
	if !connector.ValidName(name) {
		return Tokens{}
	}

	data, err := os.ReadFile(filepath.Join(s.dir(name), tokensFile))
	if err == nil {
		var raw Profile
		if err := json.Unmarshal(data, &raw); err != nil {
			logging.Warn("Store", "Ignoring malformed tokens.json for %s: %v", name, err)
		} else {
			tok := Tokens{
				AccessToken:  stringField(raw, "accessToken", "access_token"),
				RefreshToken: stringField(raw, "refreshToken", "refresh_token"),
			}
			if expiry := timeField(raw, "tokenExpiry", "expiresAt", "expires_at"); expiry != nil {
				tok.Expiry = *expiry
			}
			if tok.AccessToken != "" || tok.RefreshToken != "" || !tok.Expiry.IsZero() {
				return tok
			}
		}
	}

	profile := s.LoadProfile(name, "")
	tok := Tokens{
		AccessToken:  stringField(profile, "accessToken", "access_token"),
		RefreshToken: stringField(profile, "refreshToken", "refresh_token"),
	}
	if expiry := timeField(profile, "tokenExpiry", "expiresAt", "expires_at"); expiry != nil {
		tok.Expiry = *expiry
	}
	return tok
}

// TokenExpiry returns the stored access-token expiry, or nil when no token
// material exists for the connector.
func (s *Store) TokenExpiry(name string) *time.Time {
	tok := s.LoadTokens(name)
	if tok.Expiry.IsZero() {
		return nil
	}
	expiry := tok.Expiry
	return &expiry
}

// stringField returns the first non-empty string value among keys.
func stringField(p Profile, keys ...string) string {
	for _, key := range keys {
		if v, ok := p[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// timeField parses the first usable timestamp among keys. RFC 3339 strings
// and Unix epoch seconds both appear in the wild.
func timeField(p Profile, keys ...string) *time.Time {
	for _, key := range keys {
		switch v := p[key].(type) {
		case string:
			if ts, err := time.Parse(time.RFC3339, v); err == nil {
				return &ts
			}
		case float64:
			if v > 0 {
				ts := time.Unix(int64(v), 0)
				return &ts
			}
		}
	}
	return nil
}
