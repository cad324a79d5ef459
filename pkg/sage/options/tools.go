package options

import "fmt"

// Tool is the name of a built-in sage tool. Constants exist for the
// standard set; MCP tools use their full registered name.
type Tool string

// Execution tools
const (
	// ToolBash executes shell commands in a persistent shell.
	ToolBash Tool = "Bash"
	// ToolTask delegates work to a subagent.
	ToolTask Tool = "Task"
)

// File operation tools
const (
	// ToolRead reads files from the filesystem.
	ToolRead Tool = "Read"
	// ToolWrite writes files to the filesystem.
	ToolWrite Tool = "Write"
	// ToolEdit performs exact string replacements in files.
	ToolEdit Tool = "Edit"
	// ToolGlob finds files using glob patterns.
	ToolGlob Tool = "Glob"
	// ToolGrep searches file contents using regex.
	ToolGrep Tool = "Grep"
)

// Web tools
const (
	// ToolWebFetch fetches and analyzes web content.
	ToolWebFetch Tool = "WebFetch"
	// ToolWebSearch performs web searches.
	ToolWebSearch Tool = "WebSearch"
)

// WithMatcher creates a tool matcher pattern, e.g. "Bash(git:*)".
// Used for fine-grained tool permissions.
func (t Tool) WithMatcher(matcher string) Tool {
	return Tool(fmt.Sprintf("%s(%s)", t, matcher))
}

// String returns the tool name as a string.
func (t Tool) String() string {
	return string(t)
}
