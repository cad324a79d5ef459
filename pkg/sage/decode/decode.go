// Package decode maps untyped wire records to typed messages and events.
//
// Decoding is pure: one record in, one value out, no I/O. Unknown
// discriminants fail loudly so protocol drift is caught at the boundary
// instead of corrupting the conversation stream.
package decode

import (
	"encoding/json"
	"fmt"

	"github.com/sageagent/sage-sdk-go/pkg/sage/messages"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

// Record decodes one wire record into a typed Message or Event.
func Record(data map[string]any) (messages.Incoming, error) {
	msgType, ok := data["type"].(string)
	if !ok {
		return nil, sagerrs.NewDecodeError(
			sagerrs.ErrCodeMissingField,
			"record missing type field",
			nil,
		).WithRecord(data)
	}

	switch msgType {
	case "user":
		return decodeUser(data)
	case "assistant":
		return decodeAssistant(data)
	case "system":
		return decodeSystem(data)
	case "result":
		return decodeResult(data)
	case "notification":
		return decodeNotification(data)
	case "elicitation_request":
		return decodeElicitationRequest(data)
	case "tools_changed":
		return decodeToolsChanged(data)
	case "resource_request":
		return decodeResourceRequest(data)
	default:
		return nil, sagerrs.NewDecodeError(
			sagerrs.ErrCodeUnknownMessageType,
			fmt.Sprintf("unknown message type: %s", msgType),
			nil,
		).WithRecord(data)
	}
}

func decodeUser(data map[string]any) (messages.Incoming, error) {
	msg, _ := data["message"].(map[string]any)

	var content messages.MessageContent
	switch c := msg["content"].(type) {
	case string:
		content = messages.StringContent(c)
	case []any:
		blocks, err := decodeContentBlocks(c)
		if err != nil {
			return nil, fmt.Errorf("decode user content: %w", err)
		}
		content = messages.BlockListContent(blocks)
	default:
		return nil, sagerrs.NewDecodeError(
			sagerrs.ErrCodeInvalidType,
			"user message content must be string or array",
			nil,
		).WithField("content")
	}

	return messages.UserMessage{Content: content}, nil
}

func decodeAssistant(data map[string]any) (messages.Incoming, error) {
	msg, ok := data["message"].(map[string]any)
	if !ok {
		return nil, sagerrs.NewDecodeError(
			sagerrs.ErrCodeMissingField,
			"assistant record missing message object",
			nil,
		).WithField("message")
	}

	contentArr, _ := msg["content"].([]any)
	blocks, err := decodeContentBlocks(contentArr)
	if err != nil {
		return nil, fmt.Errorf("decode assistant content: %w", err)
	}

	model, _ := msg["model"].(string)

	return messages.AssistantMessage{Content: blocks, Model: model}, nil
}

func decodeSystem(data map[string]any) (messages.Incoming, error) {
	subtype, err := requiredString(data, "subtype")
	if err != nil {
		return nil, err
	}

	return messages.SystemMessage{Subtype: subtype, Data: data}, nil
}

func decodeResult(data map[string]any) (messages.Incoming, error) {
	if _, err := requiredString(data, "subtype"); err != nil {
		return nil, err
	}

	// Marshal round-trip keeps the field mapping in one place.
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, sagerrs.NewDecodeError(
			sagerrs.ErrCodeMessageParseFailed,
			"marshal result record",
			err,
		)
	}

	var result messages.ResultMessage
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, sagerrs.NewDecodeError(
			sagerrs.ErrCodeMessageParseFailed,
			"unmarshal result record",
			err,
		).WithRecord(data)
	}

	return result, nil
}

func decodeNotification(data map[string]any) (messages.Incoming, error) {
	method, err := requiredString(data, "method")
	if err != nil {
		return nil, err
	}

	return messages.Notification{
		Method: method,
		Params: optionalMap(data, "params"),
		Data:   data,
	}, nil
}

func decodeElicitationRequest(data map[string]any) (messages.Incoming, error) {
	id, err := requiredString(data, "id")
	if err != nil {
		return nil, err
	}
	prompt, err := requiredString(data, "prompt")
	if err != nil {
		return nil, err
	}

	return messages.ElicitationRequest{ID: id, Prompt: prompt, Data: data}, nil
}

func decodeToolsChanged(data map[string]any) (messages.Incoming, error) {
	added, err := optionalStringList(data, "added_tools")
	if err != nil {
		return nil, err
	}
	removed, err := optionalStringList(data, "removed_tools")
	if err != nil {
		return nil, err
	}

	return messages.ToolsChanged{
		AddedTools:   added,
		RemovedTools: removed,
		Data:         data,
	}, nil
}

func decodeResourceRequest(data map[string]any) (messages.Incoming, error) {
	id, err := requiredString(data, "id")
	if err != nil {
		return nil, err
	}
	name, err := requiredString(data, "name")
	if err != nil {
		return nil, err
	}

	return messages.ResourceRequest{ID: id, Name: name, Data: data}, nil
}
