// Package mcpserver exposes connector credential management over the Model
// Context Protocol. It serves stdio and registers tools for listing
// connectors, reading auth status, storing API keys, refreshing OAuth tokens
// and building OAuth authorization URLs. Handlers call the same core packages
// as the dashboard HTTP server, so both surfaces stay in agreement.
package mcpserver
