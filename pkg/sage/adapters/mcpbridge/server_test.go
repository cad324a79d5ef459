package mcpbridge

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sageagent/sage-sdk-go/pkg/sage/options"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

func calculatorServer() *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer("calc", "1.0", mcpserver.WithToolCapabilities(true))
	srv.AddTool(
		mcp.NewTool("add",
			mcp.WithDescription("Add two numbers"),
			mcp.WithNumber("a", mcp.Required()),
			mcp.WithNumber("b", mcp.Required()),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			a, _ := args["a"].(float64)
			b, _ := args["b"].(float64)

			return mcp.NewToolResultText(strconv.FormatFloat(a+b, 'f', -1, 64)), nil
		},
	)

	return srv
}

func testHost() *Host {
	return NewHost(map[string]options.MCPServerConfig{
		"calc": &options.SDKServerConfig{Name: "calc", Instance: calculatorServer()},
		"ext":  &options.StdioServerConfig{Name: "ext", Command: "mcp-server"},
	})
}

func TestHostCollectsOnlySDKServers(t *testing.T) {
	assert.Equal(t, []string{"calc"}, testHost().Names())
}

func TestHostRoutesToolCall(t *testing.T) {
	host := testHost()
	ctx := context.Background()

	init := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":` +
		`{"protocolVersion":"2025-03-26","capabilities":{},` +
		`"clientInfo":{"name":"test","version":"0"}}}`
	resp, err := host.HandleMessage(ctx, "calc", []byte(init))
	require.NoError(t, err)
	require.NotNil(t, resp)

	var initResp struct {
		Result struct {
			ServerInfo struct {
				Name string `json:"name"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resp, &initResp))
	assert.Equal(t, "calc", initResp.Result.ServerInfo.Name)

	call := `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":` +
		`{"name":"add","arguments":{"a":2,"b":3}}}`
	resp, err = host.HandleMessage(ctx, "calc", []byte(call))
	require.NoError(t, err)

	var callResp struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resp, &callResp))
	require.Len(t, callResp.Result.Content, 1)
	assert.Equal(t, "text", callResp.Result.Content[0].Type)
	assert.Equal(t, "5", callResp.Result.Content[0].Text)
}

func TestHostNotificationHasNoResponse(t *testing.T) {
	host := testHost()

	resp, err := host.HandleMessage(context.Background(), "calc",
		[]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestHostRejectsUnknownServer(t *testing.T) {
	host := testHost()

	_, err := host.HandleMessage(context.Background(), "nope",
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	require.Error(t, err)
	assert.True(t, sagerrs.IsConnectionError(err))
}
