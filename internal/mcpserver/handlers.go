package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"connecthub/internal/auth"
	"connecthub/internal/connector"
)

// connectorSummary mirrors the dashboard's list row so MCP clients and the
// web UI see the same shape.
type connectorSummary struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"displayName"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Installed   bool        `json:"installed"`
	Auth        auth.Status `json:"auth"`
}

type connectorDetail struct {
	connectorSummary
	Overview    string `json:"overview,omitempty"`
	CLICommands string `json:"cliCommands,omitempty"`
	DataStorage string `json:"dataStorage,omitempty"`
}

func (m *MCPServer) summary(def connector.Definition) connectorSummary {
	return connectorSummary{
		Name:        def.Name,
		DisplayName: def.DisplayName,
		Description: def.Description,
		Category:    def.Category,
		Installed:   connector.Installed(m.root, def.Name),
		Auth:        m.agg.Status(def.Name),
	}
}

// known reports whether a connector is in the registry or has credential
// state on disk.
func (m *MCPServer) known(name string) bool {
	if _, ok := connector.Get(name); ok {
		return true
	}
	return connector.Installed(m.root, name)
}

func toolResultJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// requireConnector extracts and validates the name argument shared by most
// tools.
func requireConnector(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	name, err := request.RequireString("name")
	if err != nil {
		return "", mcp.NewToolResultError("name argument is required")
	}
	if !connector.ValidName(name) {
		return "", mcp.NewToolResultError(fmt.Sprintf("Invalid connector name: %s", name))
	}
	return name, nil
}

func (m *MCPServer) handleListConnectors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defs := connector.All()
	summaries := make([]connectorSummary, 0, len(defs))
	for _, def := range defs {
		summaries = append(summaries, m.summary(def))
	}
	return toolResultJSON(summaries)
}

func (m *MCPServer) handleGetConnector(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errResult := requireConnector(request)
	if errResult != nil {
		return errResult, nil
	}
	if !m.known(name) {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown connector: %s", name)), nil
	}

	def, ok := connector.Get(name)
	if !ok {
		def = connector.Definition{Name: name, DisplayName: name}
	}

	doc := m.docs.Get(name)
	detail := connectorDetail{
		connectorSummary: m.summary(def),
		Overview:         doc.Overview,
		CLICommands:      doc.CLICommands,
		DataStorage:      doc.DataStorage,
	}
	return toolResultJSON(detail)
}

func (m *MCPServer) handleAuthStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errResult := requireConnector(request)
	if errResult != nil {
		return errResult, nil
	}
	return toolResultJSON(m.agg.Status(name))
}

func (m *MCPServer) handleSetAPIKey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errResult := requireConnector(request)
	if errResult != nil {
		return errResult, nil
	}

	key, err := request.RequireString("key")
	if err != nil || key == "" {
		return mcp.NewToolResultError("key argument is required"), nil
	}

	field, _ := request.GetArguments()["field"].(string)
	if field == "" {
		field = auth.SecretField(auth.Classify(m.docs.Get(name)))
	}

	if err := m.store.SaveKey(name, key, field); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to store key: %v", err)), nil
	}

	return toolResultJSON(map[string]any{
		"success": true,
		"field":   field,
	})
}

func (m *MCPServer) handleRefreshToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errResult := requireConnector(request)
	if errResult != nil {
		return errResult, nil
	}

	result := m.ref.Refresh(ctx, name)
	if !result.Success {
		return mcp.NewToolResultError(result.Error), nil
	}
	return toolResultJSON(result)
}

func (m *MCPServer) handleOAuthURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errResult := requireConnector(request)
	if errResult != nil {
		return errResult, nil
	}

	redirectURI := fmt.Sprintf("%s/oauth/%s/callback", m.baseURL, name)
	authURL := m.flow.AuthorizationURL(name, redirectURI)
	if authURL == "" {
		return mcp.NewToolResultError(fmt.Sprintf(
			"Connector %s has no OAuth provider binding or no client credentials configured", name)), nil
	}

	return toolResultJSON(map[string]string{
		"url":         authURL,
		"redirectUri": redirectURI,
	})
}
