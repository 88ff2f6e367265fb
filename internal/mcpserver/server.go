package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"connecthub/internal/auth"
	"connecthub/internal/connector"
	"connecthub/internal/credential"
	"connecthub/internal/oauth"
)

// MCPServer exposes connector credential management as MCP tools over stdio,
// so AI assistants can inspect and configure connector authentication through
// the same core logic the dashboard uses.
type MCPServer struct {
	root    string
	baseURL string
	docs    *connector.DocCache
	store   *credential.Store
	agg     *auth.Aggregator
	flow    *oauth.Flow
	ref     *oauth.Refresher

	mcpServer *server.MCPServer
}

// Options wires the MCP server's collaborators. BaseURL is the dashboard
// origin used to build OAuth redirect URIs.
type Options struct {
	ConnectorRoot string
	BaseURL       string
	Docs          *connector.DocCache
	Store         *credential.Store
	Agg           *auth.Aggregator
	Flow          *oauth.Flow
	Refresher     *oauth.Refresher
}

// New creates an MCP server with all connector tools registered.
func New(opts Options) *MCPServer {
	mcpServer := server.NewMCPServer(
		"connecthub",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	m := &MCPServer{
		root:      opts.ConnectorRoot,
		baseURL:   opts.BaseURL,
		docs:      opts.Docs,
		store:     opts.Store,
		agg:       opts.Agg,
		flow:      opts.Flow,
		ref:       opts.Refresher,
		mcpServer: mcpServer,
	}

	m.registerTools()

	return m
}

// Start serves the MCP protocol over stdin/stdout until the client
// disconnects.
func (m *MCPServer) Start(ctx context.Context) error {
	return server.ServeStdio(m.mcpServer)
}

// registerTools registers all MCP tools
func (m *MCPServer) registerTools() {
	listConnectorsTool := mcp.NewTool("list_connectors",
		mcp.WithDescription("List all known connectors with their auth status"),
	)
	m.mcpServer.AddTool(listConnectorsTool, m.handleListConnectors)

	getConnectorTool := mcp.NewTool("get_connector",
		mcp.WithDescription("Get detailed information about a specific connector"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the connector"),
		),
	)
	m.mcpServer.AddTool(getConnectorTool, m.handleGetConnector)

	authStatusTool := mcp.NewTool("auth_status",
		mcp.WithDescription("Get the authentication status of a connector"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the connector"),
		),
	)
	m.mcpServer.AddTool(authStatusTool, m.handleAuthStatus)

	setAPIKeyTool := mcp.NewTool("set_api_key",
		mcp.WithDescription("Store an API key or token for a connector"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the connector"),
		),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("The secret value to store"),
		),
		mcp.WithString("field",
			mcp.Description("Profile field to store the secret under (defaults to the connector's auth model)"),
		),
	)
	m.mcpServer.AddTool(setAPIKeyTool, m.handleSetAPIKey)

	refreshTokenTool := mcp.NewTool("refresh_token",
		mcp.WithDescription("Refresh the OAuth access token of a connector"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the connector"),
		),
	)
	m.mcpServer.AddTool(refreshTokenTool, m.handleRefreshToken)

	oauthURLTool := mcp.NewTool("oauth_url",
		mcp.WithDescription("Get the OAuth authorization URL for a connector"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the connector"),
		),
	)
	m.mcpServer.AddTool(oauthURLTool, m.handleOAuthURL)
}
