package auth

import (
	"testing"

	"connecthub/internal/connector"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		hint string
		want Type
	}{
		{"empty doc", "", TypeAPIKey},
		{"plain api key", "Uses an API key from the dashboard.", TypeAPIKey},
		{"bearer", "Uses a Bearer token. Create a restricted key.", TypeBearer},
		{"oauth", "Uses OAuth 2.0 with offline access.", TypeOAuth},
		{"lowercase oauth", "authenticate via oauth", TypeOAuth},
		{"oauth wins over bearer", "OAuth flow yields a Bearer access token.", TypeOAuth},
		{"bearer mixed case", "send the BEARER token in the header", TypeBearer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(connector.Doc{Auth: tt.hint})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSecretField(t *testing.T) {
	assert.Equal(t, "apiKey", SecretField(TypeAPIKey))
	assert.Equal(t, "apiKey", SecretField(TypeBearer))
	assert.Equal(t, "accessToken", SecretField(TypeOAuth))
}

func TestConventionalEnvVar(t *testing.T) {
	assert.Equal(t, "STRIPE_API_KEY", ConventionalEnvVar("stripe"))
	assert.Equal(t, "GOOGLE_CALENDAR_API_KEY", ConventionalEnvVar("google-calendar"))
}
