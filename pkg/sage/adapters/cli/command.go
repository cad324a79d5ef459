package cli

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/sageagent/sage-sdk-go/pkg/sage/options"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

// buildArgs constructs the sage CLI argument list. Streaming mode wires
// stdin as stream-json; one-shot mode appends --print with the prompt.
func buildArgs(opts *options.Options, prompt *string) ([]string, error) {
	args := []string{"--output-format", "stream-json", "--verbose"}
	if prompt == nil {
		args = append(args, "--input-format", "stream-json")
	}

	args = addPromptArgs(args, opts)
	args = addToolArgs(args, opts)
	args = addModelArgs(args, opts)
	args = addPermissionArgs(args, opts)
	args = addSessionArgs(args, opts)
	args = addEnvironmentArgs(args, opts)

	args, err := addMCPConfig(args, opts)
	if err != nil {
		return nil, err
	}
	args, err = addAgents(args, opts)
	if err != nil {
		return nil, err
	}

	args = append(args, "--max-thinking-tokens", strconv.Itoa(maxThinkingTokens(opts)))
	args = addExtraArgs(args, opts)

	if prompt != nil {
		args = append(args, "--print", *prompt)
	}

	return args, nil
}

func addPromptArgs(args []string, opts *options.Options) []string {
	if opts.SystemPrompt != "" {
		args = append(args, "--system-prompt", opts.SystemPrompt)
	}
	if opts.AppendSystemPrompt != "" {
		args = append(args, "--append-system-prompt", opts.AppendSystemPrompt)
	}

	return args
}

func addToolArgs(args []string, opts *options.Options) []string {
	if len(opts.AllowedTools) > 0 {
		args = append(args, "--allowedTools", joinTools(opts.AllowedTools))
	}
	if len(opts.DisallowedTools) > 0 {
		args = append(args, "--disallowedTools", joinTools(opts.DisallowedTools))
	}

	return args
}

func joinTools(tools []options.Tool) string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = string(t)
	}

	return strings.Join(names, ",")
}

func addModelArgs(args []string, opts *options.Options) []string {
	if opts.Model != "" {
		args = append(args, "--model", opts.Model)
	}
	if opts.MaxTurns > 0 {
		args = append(args, "--max-turns", strconv.Itoa(opts.MaxTurns))
	}

	return args
}

func addPermissionArgs(args []string, opts *options.Options) []string {
	if opts.PermissionMode != "" {
		args = append(args, "--permission-mode", string(opts.PermissionMode))
	}
	if opts.PermissionPromptToolName != "" {
		args = append(args, "--permission-prompt-tool", opts.PermissionPromptToolName)
	}

	return args
}

func addSessionArgs(args []string, opts *options.Options) []string {
	if opts.ContinueConversation {
		args = append(args, "--continue")
	}
	if opts.Resume != "" {
		args = append(args, "--resume", opts.Resume)
	}

	return args
}

func addEnvironmentArgs(args []string, opts *options.Options) []string {
	if opts.Settings != "" {
		args = append(args, "--settings", opts.Settings)
	}
	for _, dir := range opts.AddDirs {
		args = append(args, "--add-dir", dir)
	}

	return args
}

// addMCPConfig renders the configured MCP servers into the --mcp-config
// JSON document. SDK servers are hosted in-process and stay out of the
// document; an explicit config path wins over the rendered one.
func addMCPConfig(args []string, opts *options.Options) ([]string, error) {
	if opts.MCPConfigPath != "" {
		return append(args, "--mcp-config", opts.MCPConfigPath), nil
	}

	doc, ok := renderMCPServers(opts.MCPServers)
	if !ok {
		return args, nil
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, sagerrs.NewConnectionError(sagerrs.ErrCodeInvalidConfig, "marshal MCP config", err)
	}

	return append(args, "--mcp-config", string(data)), nil
}

func renderMCPServers(servers map[string]options.MCPServerConfig) (map[string]any, bool) {
	rendered := make(map[string]any)
	for name, cfg := range servers {
		switch c := cfg.(type) {
		case *options.StdioServerConfig:
			entry := map[string]any{"type": "stdio", "command": c.Command}
			if len(c.Args) > 0 {
				entry["args"] = c.Args
			}
			if len(c.Env) > 0 {
				entry["env"] = c.Env
			}
			rendered[name] = entry
		case *options.SSEServerConfig:
			entry := map[string]any{"type": "sse", "url": c.URL}
			if len(c.Headers) > 0 {
				entry["headers"] = c.Headers
			}
			rendered[name] = entry
		case *options.HTTPServerConfig:
			entry := map[string]any{"type": "http", "url": c.URL}
			if len(c.Headers) > 0 {
				entry["headers"] = c.Headers
			}
			rendered[name] = entry
		case *options.SDKServerConfig:
			continue
		}
	}
	if len(rendered) == 0 {
		return nil, false
	}

	return map[string]any{"mcpServers": rendered}, true
}

// addAgents renders subagent definitions into the --agents JSON
// document.
func addAgents(args []string, opts *options.Options) ([]string, error) {
	if len(opts.Agents) == 0 {
		return args, nil
	}

	doc := make(map[string]any, len(opts.Agents))
	for name, def := range opts.Agents {
		entry := map[string]any{
			"description": def.Description,
			"prompt":      def.Prompt,
		}
		if len(def.Tools) > 0 {
			tools := make([]string, len(def.Tools))
			for i, t := range def.Tools {
				tools[i] = string(t)
			}
			entry["tools"] = tools
		}
		if def.Model != "" {
			entry["model"] = def.Model
		}
		doc[name] = entry
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, sagerrs.NewConnectionError(sagerrs.ErrCodeInvalidConfig, "marshal agent definitions", err)
	}

	return append(args, "--agents", string(data)), nil
}

func maxThinkingTokens(opts *options.Options) int {
	if opts.MaxThinkingTokens > 0 {
		return opts.MaxThinkingTokens
	}

	return options.DefaultMaxThinkingTokens
}

// addExtraArgs appends user-specified flags last so they can override
// anything rendered above. Keys are sorted for a stable command line.
func addExtraArgs(args []string, opts *options.Options) []string {
	keys := make([]string, 0, len(opts.ExtraArgs))
	for flag := range opts.ExtraArgs {
		keys = append(keys, flag)
	}
	sort.Strings(keys)

	for _, flag := range keys {
		value := opts.ExtraArgs[flag]
		if value == nil {
			args = append(args, "--"+flag)
		} else {
			args = append(args, "--"+flag, *value)
		}
	}

	return args
}
