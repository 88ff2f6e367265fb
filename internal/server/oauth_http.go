package server

import (
	"fmt"
	"html"
	"net/http"

	"connecthub/internal/oauth"
)

func (s *Server) callbackURL(name string) string {
	return fmt.Sprintf("%s/oauth/%s/callback", s.cfg.BaseURL(), name)
}

func (s *Server) handleOAuthStart(w http.ResponseWriter, r *http.Request) {
	name, ok := s.connectorName(w, r)
	if !ok {
		return
	}

	authURL := s.flow.AuthorizationURL(name, s.callbackURL(name))
	if authURL == "" {
		s.renderPage(w, "OAuth Not Available",
			fmt.Sprintf("Connector %s has no OAuth provider binding or no client "+
				"credentials configured. Add a credentials.json with clientId and "+
				"clientSecret, then try again.", html.EscapeString(name)))
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	name, ok := s.connectorName(w, r)
	if !ok {
		return
	}

	result := s.flow.HandleCallback(r.Context(), name, s.callbackURL(name), r.URL.Query())

	switch result.Outcome {
	case oauth.CallbackSuccess:
		s.renderPage(w, "Authentication Successful",
			fmt.Sprintf("Connector %s is now authorized. You can close this window.",
				html.EscapeString(name)))
	case oauth.CallbackInvalidState:
		s.renderPage(w, "Invalid State",
			"The authorization link is stale or was not issued by this server. "+
				"Start the flow again from the dashboard.")
	case oauth.CallbackMissingCode:
		s.renderPage(w, "Missing Authorization Code",
			"The provider redirected without an authorization code. "+
				"Start the flow again from the dashboard.")
	default:
		s.renderPage(w, "Authentication Failed",
			html.EscapeString(result.ProviderError))
	}
}

// renderPage writes a minimal self-contained HTML page. Callback pages are
// always 200; the outcome is conveyed in the page itself. The detail argument
// must already be escaped where it carries user or provider input.
func (s *Server) renderPage(w http.ResponseWriter, title, detail string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%[1]s - connecthub</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: #16213e;
            color: #e8e8e8;
            min-height: 100vh;
            display: flex;
            align-items: center;
            justify-content: center;
            margin: 0;
        }
        .container {
            text-align: center;
            padding: 3rem;
            background: rgba(255, 255, 255, 0.05);
            border-radius: 16px;
            border: 1px solid rgba(255, 255, 255, 0.1);
            max-width: 500px;
        }
        h1 { font-size: 1.5rem; margin-bottom: 1rem; }
        p { color: #a8a8b8; line-height: 1.5; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%[1]s</h1>
        <p>%[2]s</p>
    </div>
</body>
</html>`, title, detail)
}
