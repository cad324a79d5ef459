package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/google/uuid"

	"github.com/sageagent/sage-sdk-go/pkg/sage/internal/version"
	"github.com/sageagent/sage-sdk-go/pkg/sage/ports"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

// invocation is the JSON-RPC 2.0 envelope the agent service accepts on
// its invoke endpoint.
type invocation struct {
	JSONRPC string           `json:"jsonrpc"`
	Method  string           `json:"method"`
	Params  invocationParams `json:"params"`
	ID      string           `json:"id"`
}

type invocationParams struct {
	ToolName string           `json:"tool_name"`
	Messages []map[string]any `json:"messages"`
}

// post sends one invocation and returns the response once its headers
// are in. Status codes of 400 and above are turned into network errors
// carrying the status and URL.
func (t *Transport) post(ctx context.Context, records []map[string]any, opts ports.RequestOptions) (*http.Response, error) {
	toolName := opts.ToolName
	if toolName == "" {
		toolName = t.cfg.ToolName
	}

	body, err := json.Marshal(invocation{
		JSONRPC: "2.0",
		Method:  "invoke",
		Params: invocationParams{
			ToolName: toolName,
			Messages: records,
		},
		ID: uuid.NewString(),
	})
	if err != nil {
		return nil, sagerrs.NewDecodeError(sagerrs.ErrCodeMessageParseFailed, "encoding invocation", err)
	}

	url := t.base + "/invoke"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, sagerrs.NewNetworkError(sagerrs.ErrCodeIOError, "building invocation request", err).WithURL(url)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		code := sagerrs.ErrCodeIOError
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			code = sagerrs.ErrCodeNetworkTimeout
		}

		return nil, sagerrs.NewNetworkError(code, "posting invocation", err).WithURL(url)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		_ = resp.Body.Close()

		return nil, httpStatusError(resp.StatusCode, url)
	}

	return resp, nil
}
