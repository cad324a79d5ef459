package messages

import "strings"

// ContentBlock is a discriminated union over assistant content.
type ContentBlock interface {
	contentBlock()
}

// TextBlock represents plain text content.
type TextBlock struct {
	Text string
}

func (TextBlock) contentBlock() {}

// ThinkingBlock represents extended reasoning content.
type ThinkingBlock struct {
	Thinking  string
	Signature string
}

func (ThinkingBlock) contentBlock() {}

// ToolUseBlock represents a tool invocation by the agent.
type ToolUseBlock struct {
	ID   string
	Name string
	// Input is intentionally flexible; parameters vary by tool.
	Input map[string]any
}

func (ToolUseBlock) contentBlock() {}

// ToolResultBlock represents the outcome of a tool execution.
type ToolResultBlock struct {
	ToolUseID string
	Content   ToolResultContent
	IsError   *bool
}

func (ToolResultBlock) contentBlock() {}

// ToolResultContent is either a string or a list of raw blocks.
type ToolResultContent interface {
	toolResultContent()
}

// ToolResultStringContent is a string tool result.
type ToolResultStringContent string

func (ToolResultStringContent) toolResultContent() {}

// ToolResultBlockListContent is a structured tool result.
type ToolResultBlockListContent []map[string]any

func (ToolResultBlockListContent) toolResultContent() {}

// Text concatenates the text blocks of an assistant message, which is
// usually what a caller wants to display.
func (m AssistantMessage) Text() string {
	var sb strings.Builder
	for _, block := range m.Content {
		if text, ok := block.(TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}

	return sb.String()
}
