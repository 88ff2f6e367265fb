package auth

import (
	"strings"

	"connecthub/internal/connector"
)

// Type is a connector's authentication model. It is always derived from
// documentation, never stored.
type Type string

const (
	TypeAPIKey Type = "apikey"
	TypeBearer Type = "bearer"
	TypeOAuth  Type = "oauth"
)

// classificationRules maps documentation phrasing to an auth type. The table
// is ordered; the first substring found in the auth hint wins. Connectors are
// classified by adding a row here, not code.
var classificationRules = []struct {
	substring string
	authType  Type
}{
	{"oauth", TypeOAuth},
	{"bearer", TypeBearer},
}

// Classify derives the auth type from a connector's documentation. The match
// is a case-insensitive substring test over the Authentication section text.
// A connector with no documentation, or whose docs match no rule, classifies
// as apikey.
func Classify(doc connector.Doc) Type {
	hint := strings.ToLower(doc.Auth)
	for _, rule := range classificationRules {
		if strings.Contains(hint, rule.substring) {
			return rule.authType
		}
	}
	return TypeAPIKey
}

// SecretField returns the profile key a plain credential is stored under for
// the given auth type.
func SecretField(t Type) string {
	if t == TypeOAuth {
		return "accessToken"
	}
	return "apiKey"
}
