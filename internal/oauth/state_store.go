package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"connecthub/pkg/logging"
)

// DefaultStateTTL is how long an issued state token stays redeemable.
// Pending authorizations are short-lived; a server restart invalidating
// them is acceptable.
const DefaultStateTTL = 10 * time.Minute

// StateStore provides thread-safe storage for OAuth state tokens. State
// tokens bind an authorization request to its callback for CSRF protection.
//
// Tokens are single-use: a lookup removes the entry even when validation
// fails, so a captured token gets exactly one chance. Expired entries are
// purged lazily on their next validation attempt; there is no background
// sweep.
type StateStore struct {
	mu     sync.Mutex
	states map[string]stateEntry

	ttl time.Duration
	now func() time.Time
}

type stateEntry struct {
	connector string
	expiresAt time.Time
}

// NewStateStore creates a state store with the default TTL.
func NewStateStore() *StateStore {
	return NewStateStoreWithTTL(DefaultStateTTL)
}

// NewStateStoreWithTTL creates a state store with a custom TTL.
func NewStateStoreWithTTL(ttl time.Duration) *StateStore {
	return &StateStore{
		states: make(map[string]stateEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue generates a cryptographically random state token bound to the given
// connector and stores it.
func (ss *StateStore) Issue(connector string) (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(nonce)

	ss.mu.Lock()
	ss.states[token] = stateEntry{
		connector: connector,
		expiresAt: ss.now().Add(ss.ttl),
	}
	ss.mu.Unlock()

	logging.Debug("OAuth", "Issued state token for connector %s", connector)
	return token, nil
}

// Validate redeems a state token. It returns true only when the token exists,
// is bound to the given connector, and has not expired. Any lookup consumes
// the token; empty input returns false without a lookup.
func (ss *StateStore) Validate(token, connector string) bool {
	if token == "" {
		return false
	}

	ss.mu.Lock()
	entry, found := ss.states[token]
	if found {
		delete(ss.states, token)
	}
	ss.mu.Unlock()

	if !found {
		logging.Warn("OAuth", "State token not found for connector %s", connector)
		return false
	}
	if entry.connector != connector {
		logging.Warn("OAuth", "State token connector mismatch: issued for %s, redeemed for %s",
			entry.connector, connector)
		return false
	}
	if !ss.now().Before(entry.expiresAt) {
		logging.Warn("OAuth", "State token expired for connector %s", connector)
		return false
	}

	return true
}

// Pending returns the number of outstanding state tokens, expired entries
// included until their next validation attempt.
func (ss *StateStore) Pending() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.states)
}
