package cli

import "fmt"

// AuthRequiredError indicates a connector has no usable credentials yet.
// Commands return it so the CLI can exit with a distinct code for scripting.
type AuthRequiredError struct {
	Connector string
}

func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf("connector %s is not authenticated", e.Connector)
}

// AuthFailedError indicates an OAuth flow or token refresh failed.
type AuthFailedError struct {
	Connector string
	Reason    string
}

func (e *AuthFailedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("authentication failed for connector %s", e.Connector)
	}
	return fmt.Sprintf("authentication failed for connector %s: %s", e.Connector, e.Reason)
}
