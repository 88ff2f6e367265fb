package oauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStore_IssueAndValidate(t *testing.T) {
	ss := NewStateStore()

	token, err := ss.Issue("gmail")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, ss.Validate(token, "gmail"))

	// Single-use: the same token never validates twice.
	assert.False(t, ss.Validate(token, "gmail"))
}

func TestStateStore_ConnectorMismatchConsumesToken(t *testing.T) {
	ss := NewStateStore()

	token, err := ss.Issue("gmail")
	require.NoError(t, err)

	assert.False(t, ss.Validate(token, "google-calendar"))

	// The mismatch consumed the token; even the right connector is too late.
	assert.False(t, ss.Validate(token, "gmail"))
	assert.Equal(t, 0, ss.Pending())
}

func TestStateStore_EmptyInput(t *testing.T) {
	ss := NewStateStore()

	token, err := ss.Issue("gmail")
	require.NoError(t, err)

	assert.False(t, ss.Validate("", "gmail"))

	// No side effects: the issued token is still redeemable.
	assert.True(t, ss.Validate(token, "gmail"))
}

func TestStateStore_UnknownToken(t *testing.T) {
	ss := NewStateStore()
	assert.False(t, ss.Validate("bogus", "gmail"))
}

func TestStateStore_Expiry(t *testing.T) {
	ss := NewStateStoreWithTTL(10 * time.Minute)

	current := time.Now()
	ss.now = func() time.Time { return current }

	token, err := ss.Issue("gmail")
	require.NoError(t, err)

	current = current.Add(11 * time.Minute)
	assert.False(t, ss.Validate(token, "gmail"))

	// Lazy purge: the expired entry is gone after the attempt.
	assert.Equal(t, 0, ss.Pending())
}

func TestStateStore_TokensAreUnique(t *testing.T) {
	ss := NewStateStore()

	a, err := ss.Issue("gmail")
	require.NoError(t, err)
	b, err := ss.Issue("gmail")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, ss.Pending())
}
