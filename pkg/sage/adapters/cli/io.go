package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/google/uuid"

	"github.com/sageagent/sage-sdk-go/pkg/sage/ports"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

// SendRequest writes the records to the CLI's stdin, one JSON document
// per line. Valid in streaming mode only.
func (t *Transport) SendRequest(ctx context.Context, records []map[string]any, _ ports.RequestOptions) error {
	for _, record := range records {
		if err := t.writeRecord(ctx, record); err != nil {
			return err
		}
	}

	return nil
}

// SendElicitationResponse answers an elicitation or resource request by
// its correlation id over the stdin side-channel.
func (t *Transport) SendElicitationResponse(ctx context.Context, id, value string) error {
	return t.writeRecord(ctx, map[string]any{
		"type": "control_response",
		"response": map[string]any{
			"subtype":  "elicitation_response",
			"id":       id,
			"response": value,
		},
	})
}

// Interrupt asks the CLI to stop the current turn.
func (t *Transport) Interrupt(ctx context.Context) error {
	return t.writeRecord(ctx, map[string]any{
		"type":       "control_request",
		"request_id": uuid.NewString(),
		"request":    map[string]any{"subtype": "interrupt"},
	})
}

func (t *Transport) writeRecord(ctx context.Context, record map[string]any) error {
	if t.prompt != nil {
		return sagerrs.NewNetworkError(sagerrs.ErrCodeIOError, "transport is not in streaming mode", nil)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return sagerrs.NewDecodeError(sagerrs.ErrCodeMessageParseFailed, "marshal outbound record", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready || t.stdin == nil {
		return sagerrs.NewNotConnectedError("SendRequest")
	}
	if _, err := t.stdin.Write(append(data, '\n')); err != nil {
		return sagerrs.NewNetworkError(sagerrs.ErrCodeIOError, "writing to sage CLI stdin", err)
	}

	return nil
}

// ReceiveMessages streams decoded JSON records from the CLI's stdout.
// The record channel closes on clean process exit; an abnormal exit or
// read failure is delivered once on the error channel.
func (t *Transport) ReceiveMessages(ctx context.Context) (<-chan map[string]any, <-chan error) {
	msgCh := make(chan map[string]any, 10)
	errCh := make(chan error, 1)

	t.mu.Lock()
	stdout := t.stdout
	ready := t.ready
	t.mu.Unlock()

	if !ready || stdout == nil {
		errCh <- sagerrs.NewNotConnectedError("ReceiveMessages")
		close(errCh)
		close(msgCh)

		return msgCh, errCh
	}

	go t.readLoop(ctx, stdout, msgCh, errCh)

	return msgCh, errCh
}

// readLoop scans stdout line by line. A JSON document may span lines;
// partial input accumulates until it parses, bounded by maxBufferSize.
func (t *Transport) readLoop(ctx context.Context, stdout io.Reader, msgCh chan map[string]any, errCh chan error) {
	defer close(msgCh)
	defer close(errCh)

	scanner := bufio.NewScanner(stdout)
	initial := 64 * 1024
	if t.maxBufferSize < initial {
		initial = t.maxBufferSize
	}
	scanner.Buffer(make([]byte, initial), t.maxBufferSize)

	var buffer strings.Builder
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		buffer.WriteString(line)

		if buffer.Len() > t.maxBufferSize {
			errCh <- sagerrs.NewDecodeError(
				sagerrs.ErrCodeMessageParseFailed,
				fmt.Sprintf("message exceeded maximum buffer size of %d bytes", t.maxBufferSize),
				nil,
			)

			return
		}

		var record map[string]any
		if err := json.Unmarshal([]byte(buffer.String()), &record); err != nil {
			// Incomplete document, keep accumulating.
			continue
		}
		buffer.Reset()

		select {
		case msgCh <- record:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			errCh <- sagerrs.NewDecodeError(
				sagerrs.ErrCodeMessageParseFailed,
				fmt.Sprintf("message exceeded maximum buffer size of %d bytes", t.maxBufferSize),
				err,
			)
		} else {
			errCh <- sagerrs.NewNetworkError(sagerrs.ErrCodeIOError, "reading sage CLI stdout", err)
		}

		return
	}

	t.reportExit(errCh)
}

// reportExit reaps the process after EOF and surfaces an abnormal exit.
func (t *Transport) reportExit(errCh chan error) {
	err := t.wait()
	if err == nil {
		return
	}

	stderr := ""
	if t.stderr != nil {
		stderr = t.stderr.Tail()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		errCh <- sagerrs.NewProcessError(
			sagerrs.ErrCodeProcessExited,
			fmt.Sprintf("sage CLI exited with code %d", exitErr.ExitCode()),
			err,
			exitErr.ExitCode(),
			stderr,
		)

		return
	}

	errCh <- sagerrs.NewProcessError(sagerrs.ErrCodeProcessExited, "sage CLI exited abnormally", err, -1, stderr)
}
