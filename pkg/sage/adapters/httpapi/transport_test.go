package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sageagent/sage-sdk-go/pkg/sage/options"
	"github.com/sageagent/sage-sdk-go/pkg/sage/ports"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

type capturedRequest struct {
	method      string
	path        string
	contentType string
	userAgent   string
	envelope    invocation
}

func connectedTransport(t *testing.T, url string) *Transport {
	t.Helper()

	tr := New(&options.TransportConfig{
		Type:     options.TransportHTTP,
		URL:      url,
		ToolName: "chat",
	}, nil)
	require.NoError(t, tr.Connect(context.Background()))
	t.Cleanup(func() { _ = tr.Disconnect() })

	return tr
}

func waitRecord(t *testing.T, ch <-chan map[string]any) map[string]any {
	t.Helper()

	select {
	case record := <-ch:
		return record
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a record")
		return nil
	}
}

func waitErr(t *testing.T, ch <-chan error) error {
	t.Helper()

	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an error")
		return nil
	}
}

func TestSendRequestPostsInvocation(t *testing.T) {
	got := make(chan capturedRequest, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var env invocation
		require.NoError(t, json.NewDecoder(r.Body).Decode(&env))
		got <- capturedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			userAgent:   r.Header.Get("User-Agent"),
			envelope:    env,
		}

		_, _ = w.Write([]byte(`{"type":"assistant","message":{"content":[{"type":"text","text":"hi"}]}}` + "\n" +
			`{"type":"result","subtype":"success","session_id":"default"}`))
	}))
	defer server.Close()

	// Trailing slash on the configured URL must not double up in the path.
	tr := connectedTransport(t, server.URL+"/")
	msgCh, errCh := tr.ReceiveMessages(context.Background())

	records := []map[string]any{{"type": "user", "session_id": "default"}}
	require.NoError(t, tr.SendRequest(context.Background(), records, ports.RequestOptions{SessionID: "default"}))

	captured := <-got
	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/invoke", captured.path)
	assert.Equal(t, "application/json", captured.contentType)
	assert.Equal(t, "sage-sdk-go/0.1.0", captured.userAgent)

	assert.Equal(t, "2.0", captured.envelope.JSONRPC)
	assert.Equal(t, "invoke", captured.envelope.Method)
	assert.Equal(t, "chat", captured.envelope.Params.ToolName)
	assert.Equal(t, records, captured.envelope.Params.Messages)
	_, err := uuid.Parse(captured.envelope.ID)
	assert.NoError(t, err, "invocation id should be a uuid")

	first := waitRecord(t, msgCh)
	assert.Equal(t, "assistant", first["type"])
	second := waitRecord(t, msgCh)
	assert.Equal(t, "result", second["type"])

	select {
	case err := <-errCh:
		t.Fatalf("unexpected stream error: %v", err)
	default:
	}
}

func TestSendRequestToolNameOverride(t *testing.T) {
	got := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var env invocation
		require.NoError(t, json.NewDecoder(r.Body).Decode(&env))
		got <- env.Params.ToolName
	}))
	defer server.Close()

	tr := connectedTransport(t, server.URL)

	require.NoError(t, tr.SendRequest(context.Background(), nil, ports.RequestOptions{ToolName: "review"}))
	assert.Equal(t, "review", <-got)
}

func TestSendRequestHTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	tr := connectedTransport(t, server.URL)

	err := tr.SendRequest(context.Background(), nil, ports.RequestOptions{})
	require.Error(t, err)
	assert.True(t, sagerrs.IsNetworkError(err))
	assert.Contains(t, err.Error(), "HTTP Error: 500 Internal Server Error")

	sdkErr, ok := sagerrs.AsSDKError(err)
	require.True(t, ok)
	assert.Equal(t, sagerrs.ErrCodeHTTPStatus, sdkErr.Code())
	assert.Equal(t, 500, sdkErr.Metadata()["status"])
	assert.Equal(t, server.URL+"/invoke", sdkErr.Metadata()["url"])
}

func TestSendRequestStatusErrorReleasesSlot(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
	}))
	defer server.Close()

	tr := connectedTransport(t, server.URL)

	require.Error(t, tr.SendRequest(context.Background(), nil, ports.RequestOptions{}))
	assert.NoError(t, tr.SendRequest(context.Background(), nil, ports.RequestOptions{}))
}

func TestSendRequestInFlightGuard(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) > 1 {
			return
		}

		_, _ = w.Write([]byte(`{"type":"assistant"}`))
		w.(http.Flusher).Flush()
		<-release
	}))
	defer server.Close()
	defer close(release)

	tr := connectedTransport(t, server.URL)
	msgCh, _ := tr.ReceiveMessages(context.Background())

	require.NoError(t, tr.SendRequest(context.Background(), nil, ports.RequestOptions{}))
	waitRecord(t, msgCh)

	err := tr.SendRequest(context.Background(), nil, ports.RequestOptions{})
	require.Error(t, err)
	assert.True(t, sagerrs.IsRequestInFlight(err))
	assert.Contains(t, err.Error(), "another request is already in progress")
}

func TestSendRequestSlotReleasedAfterStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"result"}`))
	}))
	defer server.Close()

	tr := connectedTransport(t, server.URL)
	msgCh, _ := tr.ReceiveMessages(context.Background())

	require.NoError(t, tr.SendRequest(context.Background(), nil, ports.RequestOptions{}))
	waitRecord(t, msgCh)

	assert.Eventually(t, func() bool {
		return tr.SendRequest(context.Background(), nil, ports.RequestOptions{}) == nil
	}, 2*time.Second, 10*time.Millisecond, "slot should free once the response body ends")
}

func TestStreamDecodeErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"assistant"} this is not json`))
	}))
	defer server.Close()

	tr := connectedTransport(t, server.URL)
	msgCh, errCh := tr.ReceiveMessages(context.Background())

	require.NoError(t, tr.SendRequest(context.Background(), nil, ports.RequestOptions{}))
	waitRecord(t, msgCh)

	err := waitErr(t, errCh)
	assert.True(t, sagerrs.IsDecodeError(err))
}

func TestDisconnectDeliversCleanClose(t *testing.T) {
	tr := New(&options.TransportConfig{Type: options.TransportHTTP, URL: "http://localhost:9"}, nil)
	require.NoError(t, tr.Connect(context.Background()))

	_, errCh := tr.ReceiveMessages(context.Background())

	require.NoError(t, tr.Disconnect())
	assert.False(t, tr.Connected())

	err := waitErr(t, errCh)
	assert.True(t, sagerrs.IsConnectionClosed(err))

	// A second disconnect must not deliver another terminal error.
	require.NoError(t, tr.Disconnect())
	select {
	case err := <-errCh:
		t.Fatalf("unexpected second error: %v", err)
	default:
	}
}

func TestTransportRejectsUseBeforeConnect(t *testing.T) {
	tr := New(&options.TransportConfig{Type: options.TransportHTTP, URL: "http://localhost:9"}, nil)

	err := tr.SendRequest(context.Background(), nil, ports.RequestOptions{})
	assert.True(t, sagerrs.IsNotConnectedError(err))

	_, errCh := tr.ReceiveMessages(context.Background())
	assert.True(t, sagerrs.IsNotConnectedError(waitErr(t, errCh)))
}

func TestConnectRequiresURL(t *testing.T) {
	tr := New(&options.TransportConfig{Type: options.TransportHTTP}, nil)

	err := tr.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, sagerrs.IsConnectionError(err))

	sdkErr, ok := sagerrs.AsSDKError(err)
	require.True(t, ok)
	assert.Equal(t, sagerrs.ErrCodeInvalidConfig, sdkErr.Code())
}

func TestSideChannelOperationsUnsupported(t *testing.T) {
	tr := connectedTransport(t, "http://localhost:9")

	err := tr.SendElicitationResponse(context.Background(), "elicit-1", "yes")
	assert.True(t, sagerrs.IsNetworkError(err))

	err = tr.Interrupt(context.Background())
	assert.True(t, sagerrs.IsNetworkError(err))
}
