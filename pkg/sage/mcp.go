package sage

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/sageagent/sage-sdk-go/pkg/sage/options"
)

// ToolHandler executes one in-process MCP tool call.
type ToolHandler = mcpserver.ToolHandlerFunc

// SDKTool pairs a tool definition with its handler for in-process
// servers.
type SDKTool struct {
	Tool    mcp.Tool
	Handler ToolHandler
}

// Tool defines an in-process MCP tool. The input schema is a literal
// JSON Schema document; when empty (or not encodable) the tool accepts
// an empty object.
func Tool(name, description string, inputSchema map[string]any, handler ToolHandler) SDKTool {
	if len(inputSchema) > 0 {
		if raw, err := json.Marshal(inputSchema); err == nil {
			return SDKTool{
				Tool:    mcp.NewToolWithRawSchema(name, description, raw),
				Handler: handler,
			}
		}
	}

	return SDKTool{
		Tool:    mcp.NewTool(name, mcp.WithDescription(description)),
		Handler: handler,
	}
}

// NewSDKMCPServer builds an in-process MCP server hosting the given
// tools, ready to be placed in Options.MCPServers.
func NewSDKMCPServer(name, version string, tools ...SDKTool) *options.SDKServerConfig {
	srv := mcpserver.NewMCPServer(name, version, mcpserver.WithToolCapabilities(true))
	for _, tool := range tools {
		srv.AddTool(tool.Tool, tool.Handler)
	}

	return &options.SDKServerConfig{Name: name, Instance: srv}
}
