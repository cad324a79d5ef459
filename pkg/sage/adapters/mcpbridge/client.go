// Package mcpbridge connects sessions to Model Context Protocol
// servers: a client bridge dials external servers and an in-process
// host serves SDK-defined ones.
package mcpbridge

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sageagent/sage-sdk-go/pkg/sage/internal/version"
	"github.com/sageagent/sage-sdk-go/pkg/sage/options"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

// Client is a connected session with one external MCP server.
type Client struct {
	name    string
	session *mcpsdk.ClientSession
}

// Connect dials the external server described by cfg. SDK-type servers
// run in-process and cannot be dialed; see Host.
func Connect(ctx context.Context, cfg options.MCPServerConfig) (*Client, error) {
	transport, err := buildTransport(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "sage-sdk-go",
		Version: version.Version,
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, sagerrs.NewConnectionError(
			sagerrs.ErrCodeConnectionFailed,
			fmt.Sprintf("connecting to mcp server %q", cfg.ServerName()),
			err,
		)
	}

	return &Client{name: cfg.ServerName(), session: session}, nil
}

// ConnectAll dials every external server in configs, skipping SDK-type
// entries. On any failure the already-connected servers are closed.
func ConnectAll(ctx context.Context, configs map[string]options.MCPServerConfig) (map[string]*Client, error) {
	clients := make(map[string]*Client, len(configs))

	for name, cfg := range configs {
		if _, ok := cfg.(*options.SDKServerConfig); ok {
			continue
		}

		client, err := Connect(ctx, cfg)
		if err != nil {
			for _, connected := range clients {
				_ = connected.Close()
			}

			return nil, err
		}
		clients[name] = client
	}

	return clients, nil
}

// buildTransport maps a server configuration to the matching MCP
// transport.
func buildTransport(ctx context.Context, cfg options.MCPServerConfig) (mcpsdk.Transport, error) {
	switch config := cfg.(type) {
	case *options.StdioServerConfig:
		cmd := exec.CommandContext(ctx, config.Command, config.Args...)
		if len(config.Env) > 0 {
			cmd.Env = os.Environ()
			for key, value := range config.Env {
				cmd.Env = append(cmd.Env, key+"="+value)
			}
		}

		return &mcpsdk.CommandTransport{Command: cmd}, nil

	case *options.SSEServerConfig:
		return &mcpsdk.StreamableClientTransport{Endpoint: config.URL}, nil

	case *options.HTTPServerConfig:
		return &mcpsdk.StreamableClientTransport{Endpoint: config.URL}, nil

	case *options.SDKServerConfig:
		return nil, sagerrs.NewConnectionError(
			sagerrs.ErrCodeInvalidConfig,
			fmt.Sprintf("mcp server %q is an sdk server, host it in-process instead", cfg.ServerName()),
			nil,
		)

	default:
		return nil, sagerrs.NewConnectionError(
			sagerrs.ErrCodeInvalidConfig,
			fmt.Sprintf("unknown mcp server config type %T", cfg),
			nil,
		)
	}
}

// Name returns the server identifier this client is connected to.
func (c *Client) Name() string {
	return c.name
}

// ListTools fetches the server's tool catalog.
func (c *Client) ListTools(ctx context.Context) (*mcpsdk.ListToolsResult, error) {
	return c.session.ListTools(ctx, &mcpsdk.ListToolsParams{})
}

// CallTool invokes one tool on the server.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*mcpsdk.CallToolResult, error) {
	return c.session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
}

// Close terminates the connection to the server.
func (c *Client) Close() error {
	if c.session == nil {
		return nil
	}

	return c.session.Close()
}
