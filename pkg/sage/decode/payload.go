package decode

import "github.com/sageagent/sage-sdk-go/pkg/sagerrs"

// ErrorPayload checks a record for a peer-reported error payload of the
// shape {"error": {"code": n, "message": s, "data": {"hint": s}}} and
// converts it to a RemoteToolError.
func ErrorPayload(data map[string]any) (*sagerrs.RemoteToolError, bool) {
	raw, ok := data["error"]
	if !ok || raw == nil {
		return nil, false
	}

	payload, _ := raw.(map[string]any)

	message, _ := payload["message"].(string)
	if message == "" {
		message = "unknown remote error"
	}

	code := -1
	// JSON numbers arrive as float64.
	if f, ok := payload["code"].(float64); ok {
		code = int(f)
	}

	var hint string
	if extra, ok := payload["data"].(map[string]any); ok {
		hint, _ = extra["hint"].(string)
	}

	return sagerrs.NewRemoteToolError(message, code, hint), true
}
