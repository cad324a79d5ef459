package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageVariants(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"user", UserMessage{}},
		{"assistant", AssistantMessage{}},
		{"system", SystemMessage{}},
		{"result", ResultMessage{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var _ Incoming = tt.msg

			_, isEvent := tt.msg.(Event)
			assert.False(t, isEvent, "conversation messages must not satisfy Event")
		})
	}
}

func TestEventVariants(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
	}{
		{"notification", Notification{}},
		{"elicitation_request", ElicitationRequest{}},
		{"tools_changed", ToolsChanged{}},
		{"resource_request", ResourceRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var _ Incoming = tt.ev

			_, isMessage := tt.ev.(Message)
			assert.False(t, isMessage, "events must not satisfy Message")
		})
	}
}

func TestAssistantText(t *testing.T) {
	msg := AssistantMessage{
		Model: "sage-4",
		Content: []ContentBlock{
			TextBlock{Text: "Hello"},
			ToolUseBlock{ID: "tool-1", Name: "read_file", Input: map[string]any{"path": "a.txt"}},
			TextBlock{Text: " world"},
		},
	}

	assert.Equal(t, "Hello world", msg.Text())
	assert.Empty(t, AssistantMessage{}.Text())
}
