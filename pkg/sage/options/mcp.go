package options

import mcpserver "github.com/mark3labs/mcp-go/server"

// MCPServerConfig is the union of MCP server configurations. External
// servers (stdio, SSE, HTTP) are rendered into the CLI's --mcp-config
// document; SDK servers run in-process and are bridged directly.
type MCPServerConfig interface {
	mcpServerConfig()
	// ServerName returns the server identifier used for routing.
	ServerName() string
}

// StdioServerConfig configures an external MCP server spawned as a
// subprocess speaking stdio.
type StdioServerConfig struct {
	Name    string            `json:"-"`
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

func (*StdioServerConfig) mcpServerConfig() {}
func (c *StdioServerConfig) ServerName() string { return c.Name }

// SSEServerConfig configures an external MCP server reached over
// Server-Sent Events.
type SSEServerConfig struct {
	Name    string            `json:"-"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

func (*SSEServerConfig) mcpServerConfig() {}
func (c *SSEServerConfig) ServerName() string { return c.Name }

// HTTPServerConfig configures an external MCP server reached over
// streamable HTTP.
type HTTPServerConfig struct {
	Name    string            `json:"-"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

func (*HTTPServerConfig) mcpServerConfig() {}
func (c *HTTPServerConfig) ServerName() string { return c.Name }

// SDKServerConfig configures an in-process MCP server. The instance is
// hosted inside the SDK and never appears in the CLI config document.
type SDKServerConfig struct {
	Name     string
	Instance *mcpserver.MCPServer
}

func (*SDKServerConfig) mcpServerConfig() {}
func (c *SDKServerConfig) ServerName() string { return c.Name }
