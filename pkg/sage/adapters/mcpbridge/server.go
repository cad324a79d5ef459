package mcpbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/sageagent/sage-sdk-go/pkg/sage/options"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

// Host serves the SDK-type servers from a configuration map in-process.
// Messages are raw JSON-RPC documents, the same framing external
// servers would receive over stdio.
type Host struct {
	servers map[string]*mcpserver.MCPServer
}

// NewHost collects the SDK-type servers out of configs. External server
// entries are ignored.
func NewHost(configs map[string]options.MCPServerConfig) *Host {
	servers := make(map[string]*mcpserver.MCPServer)
	for name, cfg := range configs {
		if sdk, ok := cfg.(*options.SDKServerConfig); ok && sdk.Instance != nil {
			servers[name] = sdk.Instance
		}
	}

	return &Host{servers: servers}
}

// Names returns the hosted server names in sorted order.
func (h *Host) Names() []string {
	names := make([]string, 0, len(h.servers))
	for name := range h.servers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// HandleMessage routes one raw JSON-RPC message to the named server and
// returns the raw response. Notifications produce a nil response.
func (h *Host) HandleMessage(ctx context.Context, server string, message []byte) ([]byte, error) {
	srv, ok := h.servers[server]
	if !ok {
		return nil, sagerrs.NewConnectionError(
			sagerrs.ErrCodeInvalidConfig,
			fmt.Sprintf("no sdk mcp server named %q", server),
			nil,
		)
	}

	resp := srv.HandleMessage(ctx, json.RawMessage(message))
	if resp == nil {
		return nil, nil
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return nil, sagerrs.NewDecodeError(sagerrs.ErrCodeMessageParseFailed, "encoding mcp response", err)
	}

	return out, nil
}
