// Package logging provides the structured logging system for connecthub.
//
// It is a thin wrapper over Go's standard slog package that adds a
// subsystem tag to every entry and printf-style message formatting.
//
// # Usage
//
//	import "connecthub/pkg/logging"
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Store", "Saved profile for %s", connector)
//	logging.Error("OAuth", err, "Token exchange failed")
//
// # Subsystem Organization
//
// Logs are organized by subsystem to enable filtering:
//
//   - **Bootstrap**: Application initialization and startup
//   - **Config**: Configuration loading and validation
//   - **Store**: Credential file reads and writes
//   - **Docs**: Connector documentation discovery and parsing
//   - **OAuth**: Authorization flows, state handling and token refresh
//   - **Dashboard**: HTTP server request handling
//   - **MCP**: MCP tool server operations
//
// # Thread Safety
//
// The logging system is fully thread-safe; it is safe to log concurrently
// from multiple goroutines.
package logging
