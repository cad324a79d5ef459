// Package options provides pure configuration types for the SDK.
// Nothing here performs I/O except the agent-definition loader.
package options

import (
	"io"
	"log/slog"
)

// PermissionMode defines how tool permissions are handled during a session.
type PermissionMode string

const (
	// PermissionModeDefault uses the CLI's default permission behavior.
	PermissionModeDefault PermissionMode = "default"
	// PermissionModeAcceptEdits automatically accepts all file edits.
	PermissionModeAcceptEdits PermissionMode = "acceptEdits"
	// PermissionModePlan enables planning mode.
	PermissionModePlan PermissionMode = "plan"
	// PermissionModeBypassPermissions bypasses all permission checks.
	PermissionModeBypassPermissions PermissionMode = "bypassPermissions"
)

// DefaultMaxThinkingTokens is applied when MaxThinkingTokens is zero.
const DefaultMaxThinkingTokens = 8000

// TransportType selects which transport the client constructs.
type TransportType string

const (
	// TransportSubprocess runs the sage CLI as a child process. The default.
	TransportSubprocess TransportType = "subprocess"
	// TransportHTTP talks to a remote agent service over HTTP.
	TransportHTTP TransportType = "http"
)

// TransportConfig selects and configures a non-default transport.
type TransportConfig struct {
	Type TransportType
	// URL is the service base URL for the http transport.
	URL string
	// ToolName is the remote tool invoked by the http transport.
	ToolName string
}

// Options configures a client or a one-shot query. The zero value is a
// working default configuration.
type Options struct {
	// Tool configuration
	AllowedTools    []Tool
	DisallowedTools []Tool

	// Prompt configuration
	SystemPrompt       string
	AppendSystemPrompt string
	// MaxThinkingTokens caps internal reasoning; zero means
	// DefaultMaxThinkingTokens.
	MaxThinkingTokens int

	// Model and turn limits; zero values leave the CLI defaults.
	Model    string
	MaxTurns int

	// Permission handling
	PermissionMode           PermissionMode
	PermissionPromptToolName string

	// Session management
	ContinueConversation bool
	Resume               string

	// Execution environment
	Cwd      string
	Settings string
	AddDirs  []string
	Env      map[string]string
	// ExtraArgs passes additional CLI flags. A nil value renders a
	// boolean flag, a non-nil value a flag with an argument.
	ExtraArgs map[string]*string

	// MCPServers configures MCP servers by name. MCPConfigPath points at
	// an existing config file instead; when set it takes precedence.
	MCPServers    map[string]MCPServerConfig
	MCPConfigPath string

	// Agents defines subagents by name.
	Agents map[string]AgentDefinition

	// Transport selects a non-default transport. Nil means subprocess.
	Transport *TransportConfig

	// CLIPath overrides sage binary discovery.
	CLIPath string
	// MaxBufferSize caps a single stdout line from the CLI, in bytes.
	// Zero means the transport default.
	MaxBufferSize int
	// Stderr receives the CLI's stderr output when non-nil.
	Stderr io.Writer

	// Logger receives the SDK's diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}
