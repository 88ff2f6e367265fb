// Package oauth implements the OAuth2 authorization-code lifecycle for
// connectors: CSRF state tokens, the authorization URL and callback flow,
// and refresh-token grants.
//
// State tokens are process-wide, in-memory and single-use; a server restart
// invalidates pending authorizations, which is acceptable since they expire
// within minutes anyway. Token material is persisted through the credential
// store, never held here.
package oauth
