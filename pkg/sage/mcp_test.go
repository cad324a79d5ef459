package sage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("ok"), nil
}

func TestToolCarriesLiteralSchema(t *testing.T) {
	tool := Tool("greet", "Greet someone", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
		"required": []string{"name"},
	}, echoHandler)

	assert.Equal(t, "greet", tool.Tool.Name)
	assert.Equal(t, "Greet someone", tool.Tool.Description)
	require.True(t, json.Valid(tool.Tool.RawInputSchema))

	var schema map[string]any
	require.NoError(t, json.Unmarshal(tool.Tool.RawInputSchema, &schema))
	assert.Contains(t, schema, "properties")
}

func TestToolWithoutSchemaAcceptsEmptyObject(t *testing.T) {
	tool := Tool("ping", "Check liveness", nil, echoHandler)

	assert.Equal(t, "ping", tool.Tool.Name)
	assert.Equal(t, "object", tool.Tool.InputSchema.Type)
}

func TestNewSDKMCPServerConfig(t *testing.T) {
	cfg := NewSDKMCPServer("calc", "1.0",
		Tool("add", "Add two numbers", nil, echoHandler),
	)

	assert.Equal(t, "calc", cfg.ServerName())
	require.NotNil(t, cfg.Instance)
}
