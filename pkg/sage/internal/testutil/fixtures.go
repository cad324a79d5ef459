package testutil

// AssistantRecord is a wire fixture for an assistant message.
var AssistantRecord = map[string]any{
	"type": "assistant",
	"message": map[string]any{
		"model": "sage-4",
		"content": []any{
			map[string]any{"type": "text", "text": "Hello"},
		},
	},
}

// UserRecord is a wire fixture for an echoed user message.
var UserRecord = map[string]any{
	"type": "user",
	"message": map[string]any{
		"role":    "user",
		"content": "Hi there",
	},
}

// SystemRecord is a wire fixture for a system message.
var SystemRecord = map[string]any{
	"type":       "system",
	"subtype":    "init",
	"session_id": "test-session",
	"model":      "sage-4",
}

// ResultRecord is a wire fixture for a success result message.
var ResultRecord = map[string]any{
	"type":            "result",
	"subtype":         "success",
	"duration_ms":     float64(1234),
	"duration_api_ms": float64(1200),
	"is_error":        false,
	"num_turns":       float64(1),
	"session_id":      "test-session",
}

// NotificationRecord is a wire fixture for a notification event.
var NotificationRecord = map[string]any{
	"type":   "notification",
	"method": "log/info",
	"params": map[string]any{"message": "background job started"},
}

// ElicitationRecord is a wire fixture for an elicitation request.
var ElicitationRecord = map[string]any{
	"type":   "elicitation_request",
	"id":     "elicit-123",
	"prompt": "What is your name?",
}

// ToolsChangedRecord is a wire fixture for a tools_changed event.
var ToolsChangedRecord = map[string]any{
	"type":          "tools_changed",
	"added_tools":   []any{"new_tool"},
	"removed_tools": []any{"old_tool"},
}

// ResourceRequestRecord is a wire fixture for a resource request.
var ResourceRequestRecord = map[string]any{
	"type": "resource_request",
	"id":   "resource-456",
	"name": "path/to/file.txt",
}

// ErrorPayloadRecord is a wire fixture for a peer error payload.
var ErrorPayloadRecord = map[string]any{
	"error": map[string]any{
		"code":    float64(-32602),
		"message": "tool execution failed",
		"data":    map[string]any{"hint": "check the arguments"},
	},
}

// AssistantText builds an assistant record containing one text block.
func AssistantText(text string) map[string]any {
	return map[string]any{
		"type": "assistant",
		"message": map[string]any{
			"model": "sage-4",
			"content": []any{
				map[string]any{"type": "text", "text": text},
			},
		},
	}
}

// ResultFor builds a result record for the given session.
func ResultFor(sessionID string) map[string]any {
	return map[string]any{
		"type":            "result",
		"subtype":         "success",
		"duration_ms":     float64(10),
		"duration_api_ms": float64(8),
		"is_error":        false,
		"num_turns":       float64(1),
		"session_id":      sessionID,
	}
}
