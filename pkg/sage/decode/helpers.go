package decode

import (
	"fmt"

	"github.com/sageagent/sage-sdk-go/pkg/sage/messages"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

func requiredString(data map[string]any, key string) (string, error) {
	val, ok := data[key]
	if !ok {
		return "", sagerrs.NewDecodeError(
			sagerrs.ErrCodeMissingField,
			fmt.Sprintf("missing required field: %s", key),
			nil,
		).WithField(key)
	}

	str, ok := val.(string)
	if !ok {
		return "", sagerrs.NewDecodeError(
			sagerrs.ErrCodeInvalidType,
			fmt.Sprintf("field %s must be string, got %T", key, val),
			nil,
		).WithField(key)
	}

	return str, nil
}

func optionalMap(data map[string]any, key string) map[string]any {
	m, _ := data[key].(map[string]any)

	return m
}

func optionalStringList(data map[string]any, key string) ([]string, error) {
	val, ok := data[key]
	if !ok || val == nil {
		return nil, nil
	}

	arr, ok := val.([]any)
	if !ok {
		return nil, sagerrs.NewDecodeError(
			sagerrs.ErrCodeInvalidType,
			fmt.Sprintf("field %s must be array, got %T", key, val),
			nil,
		).WithField(key)
	}

	out := make([]string, 0, len(arr))
	for _, item := range arr {
		str, ok := item.(string)
		if !ok {
			return nil, sagerrs.NewDecodeError(
				sagerrs.ErrCodeInvalidType,
				fmt.Sprintf("field %s must contain strings, got %T", key, item),
				nil,
			).WithField(key)
		}
		out = append(out, str)
	}

	return out, nil
}

func optionalBoolPtr(data map[string]any, key string) *bool {
	val, ok := data[key].(bool)
	if !ok {
		return nil
	}

	return &val
}

func decodeContentBlocks(contentArr []any) ([]messages.ContentBlock, error) {
	blocks := make([]messages.ContentBlock, 0, len(contentArr))
	for _, item := range contentArr {
		block, err := decodeContentBlock(item)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

func decodeContentBlock(item any) (messages.ContentBlock, error) {
	block, ok := item.(map[string]any)
	if !ok {
		return nil, sagerrs.NewDecodeError(
			sagerrs.ErrCodeInvalidType,
			"content block must be an object",
			nil,
		)
	}

	blockType, ok := block["type"].(string)
	if !ok {
		return nil, sagerrs.NewDecodeError(
			sagerrs.ErrCodeMissingField,
			"content block missing type field",
			nil,
		).WithField("type")
	}

	switch blockType {
	case "text":
		text, _ := block["text"].(string)

		return messages.TextBlock{Text: text}, nil
	case "thinking":
		thinking, _ := block["thinking"].(string)
		signature, _ := block["signature"].(string)

		return messages.ThinkingBlock{Thinking: thinking, Signature: signature}, nil
	case "tool_use":
		id, _ := block["id"].(string)
		name, _ := block["name"].(string)
		input, _ := block["input"].(map[string]any)

		return messages.ToolUseBlock{ID: id, Name: name, Input: input}, nil
	case "tool_result":
		return decodeToolResultBlock(block), nil
	default:
		return nil, sagerrs.NewDecodeError(
			sagerrs.ErrCodeUnknownMessageType,
			fmt.Sprintf("unknown content block type: %s", blockType),
			nil,
		)
	}
}

func decodeToolResultBlock(block map[string]any) messages.ToolResultBlock {
	toolUseID, _ := block["tool_use_id"].(string)

	var content messages.ToolResultContent
	switch c := block["content"].(type) {
	case string:
		content = messages.ToolResultStringContent(c)
	case []any:
		list := make(messages.ToolResultBlockListContent, 0, len(c))
		for _, entry := range c {
			if m, ok := entry.(map[string]any); ok {
				list = append(list, m)
			}
		}
		content = list
	}

	return messages.ToolResultBlock{
		ToolUseID: toolUseID,
		Content:   content,
		IsError:   optionalBoolPtr(block, "is_error"),
	}
}
