package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sageagent/sage-sdk-go/pkg/sage/options"
	"github.com/sageagent/sage-sdk-go/pkg/sage/ports"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

type stdinRecorder struct {
	bytes.Buffer
}

func (*stdinRecorder) Close() error { return nil }

// streamingTransport returns a transport wired to an in-memory stdin,
// bypassing process startup.
func streamingTransport() (*Transport, *stdinRecorder) {
	stdin := &stdinRecorder{}
	t := New(nil, nil)
	t.ready = true
	t.stdin = stdin

	return t, stdin
}

func decodeLines(t *testing.T, raw string) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		out = append(out, record)
	}

	return out
}

func TestSendRequestWritesJSONLines(t *testing.T) {
	transport, stdin := streamingTransport()

	records := []map[string]any{
		{"type": "user", "session_id": "s1"},
		{"type": "user", "session_id": "s2"},
	}
	require.NoError(t, transport.SendRequest(context.Background(), records, ports.RequestOptions{}))

	got := decodeLines(t, stdin.String())
	require.Len(t, got, 2)
	assert.Equal(t, "s1", got[0]["session_id"])
	assert.Equal(t, "s2", got[1]["session_id"])
}

func TestSendElicitationResponseShape(t *testing.T) {
	transport, stdin := streamingTransport()

	require.NoError(t, transport.SendElicitationResponse(context.Background(), "elicit-9", "Jules"))

	got := decodeLines(t, stdin.String())
	require.Len(t, got, 1)
	assert.Equal(t, "control_response", got[0]["type"])
	response, ok := got[0]["response"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "elicitation_response", response["subtype"])
	assert.Equal(t, "elicit-9", response["id"])
	assert.Equal(t, "Jules", response["response"])
}

func TestInterruptShape(t *testing.T) {
	transport, stdin := streamingTransport()

	require.NoError(t, transport.Interrupt(context.Background()))

	got := decodeLines(t, stdin.String())
	require.Len(t, got, 1)
	assert.Equal(t, "control_request", got[0]["type"])

	id, ok := got[0]["request_id"].(string)
	require.True(t, ok)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "request_id must be a uuid")

	request, ok := got[0]["request"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "interrupt", request["subtype"])
}

func TestWriteRejectedInOneShotMode(t *testing.T) {
	prompt := "hi"
	transport := New(nil, &prompt)

	err := transport.SendRequest(context.Background(), []map[string]any{{"type": "user"}}, ports.RequestOptions{})
	require.Error(t, err)
	assert.True(t, sagerrs.IsNetworkError(err))
}

func TestWriteBeforeConnect(t *testing.T) {
	transport := New(nil, nil)

	err := transport.SendRequest(context.Background(), []map[string]any{{"type": "user"}}, ports.RequestOptions{})
	assert.True(t, sagerrs.IsNotConnectedError(err))
}

func runReadLoop(t *testing.T, transport *Transport, input string) ([]map[string]any, error) {
	t.Helper()

	msgCh := make(chan map[string]any, 10)
	errCh := make(chan error, 1)
	go transport.readLoop(context.Background(), strings.NewReader(input), msgCh, errCh)

	var (
		records []map[string]any
		lastErr error
	)
	timeout := time.After(2 * time.Second)
	for msgCh != nil || errCh != nil {
		select {
		case record, ok := <-msgCh:
			if !ok {
				msgCh = nil

				continue
			}
			records = append(records, record)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil

				continue
			}
			lastErr = err
		case <-timeout:
			t.Fatal("readLoop did not finish")
		}
	}

	return records, lastErr
}

func TestReadLoopDecodesLines(t *testing.T) {
	transport := New(nil, nil)

	input := `{"type":"assistant"}
{"type":"result","subtype":"success"}
`
	records, err := runReadLoop(t, transport, input)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "assistant", records[0]["type"])
	assert.Equal(t, "result", records[1]["type"])
}

func TestReadLoopAccumulatesSplitDocuments(t *testing.T) {
	transport := New(nil, nil)

	input := "{\"type\":\n\"assistant\"}\n{\"type\":\"result\"}\n"
	records, err := runReadLoop(t, transport, input)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "assistant", records[0]["type"])
}

func TestReadLoopSkipsBlankLines(t *testing.T) {
	transport := New(nil, nil)

	records, err := runReadLoop(t, transport, "\n\n{\"type\":\"assistant\"}\n\n")
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestReadLoopBufferOverflow(t *testing.T) {
	transport := New(&options.Options{MaxBufferSize: 64}, nil)

	// Two short unparseable fragments accumulate past the cap.
	input := strings.Repeat("x", 40) + "\n" + strings.Repeat("y", 40) + "\n"
	_, err := runReadLoop(t, transport, input)
	require.Error(t, err)
	assert.True(t, sagerrs.IsDecodeError(err))
}

func TestReadLoopLineTooLong(t *testing.T) {
	transport := New(&options.Options{MaxBufferSize: 64}, nil)

	_, err := runReadLoop(t, transport, strings.Repeat("z", 500)+"\n")
	require.Error(t, err)
	assert.True(t, sagerrs.IsDecodeError(err))
}

func TestFindCLIOverride(t *testing.T) {
	path, err := findCLI("/opt/sage/bin/sage")
	require.NoError(t, err)
	assert.Equal(t, "/opt/sage/bin/sage", path)
}

func TestFindCLIEnvOverride(t *testing.T) {
	t.Setenv(cliPathEnv, "/custom/sage")

	path, err := findCLI("")
	require.NoError(t, err)
	assert.Equal(t, "/custom/sage", path)
}

func TestFindCLINotFound(t *testing.T) {
	t.Setenv(cliPathEnv, "")
	t.Setenv("PATH", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, err := findCLI("")
	require.Error(t, err)
	assert.True(t, sagerrs.IsConnectionError(err))
	assert.Contains(t, err.Error(), cliPathEnv)
}

func TestStderrTailKeepsSuffix(t *testing.T) {
	var forwarded bytes.Buffer
	tail := newStderrTail(&forwarded)

	first := strings.Repeat("a", stderrTailLimit)
	_, err := tail.Write([]byte(first))
	require.NoError(t, err)
	_, err = tail.Write([]byte("the end"))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(tail.Tail(), "the end"))
	assert.LessOrEqual(t, len(tail.Tail()), stderrTailLimit)
	assert.Equal(t, len(first)+len("the end"), forwarded.Len())
}

func TestBuildEnvSetsEntrypoint(t *testing.T) {
	streaming := buildEnv(&options.Options{Env: map[string]string{"SAGE_DEBUG": "1"}}, true)
	assert.Contains(t, streaming, "SAGE_ENTRYPOINT=sdk-go-client")
	assert.Contains(t, streaming, "SAGE_DEBUG=1")

	oneShot := buildEnv(&options.Options{}, false)
	assert.Contains(t, oneShot, "SAGE_ENTRYPOINT=sdk-go")
}
