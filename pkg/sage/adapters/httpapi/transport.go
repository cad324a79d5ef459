// Package httpapi implements the network transport: requests go to an
// agent service as JSON-RPC invocations over HTTP and replies stream
// back as concatenated JSON documents.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sageagent/sage-sdk-go/pkg/sage/options"
	"github.com/sageagent/sage-sdk-go/pkg/sage/ports"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

const (
	// requestTimeout bounds one full invocation including the streamed
	// response body.
	requestTimeout = 300 * time.Second
	// connectTimeout bounds TCP connection establishment.
	connectTimeout = 60 * time.Second
)

// Transport talks to a remote agent service. One invocation may stream
// for a long time; a second SendRequest while one is streaming fails
// with a request-in-flight error.
type Transport struct {
	cfg    *options.TransportConfig
	logger *slog.Logger
	client *http.Client
	base   string

	mu        sync.Mutex
	connected bool
	inFlight  bool

	msgCh     chan map[string]any
	errCh     chan error
	closed    chan struct{}
	closeOnce sync.Once
}

var _ ports.Transport = (*Transport)(nil)

// New creates a disconnected HTTP transport for the configured service.
func New(cfg *options.TransportConfig, opts *options.Options) *Transport {
	if opts == nil {
		opts = &options.Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Transport{
		cfg:    cfg,
		logger: logger,
		base:   strings.TrimRight(cfg.URL, "/"),
		client: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
		msgCh:  make(chan map[string]any, 10),
		errCh:  make(chan error, 1),
		closed: make(chan struct{}),
	}
}

// Connect validates the configuration and marks the transport live. No
// network traffic happens until the first request.
func (t *Transport) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.connected {
		return nil
	}
	if t.base == "" {
		return sagerrs.NewConnectionError(sagerrs.ErrCodeInvalidConfig, "http transport requires a service URL", nil)
	}

	t.connected = true

	return nil
}

// Disconnect stops any streaming response and ends the inbound stream
// with a connection-closed condition. Safe to call repeatedly.
func (t *Transport) Disconnect() error {
	t.mu.Lock()
	wasConnected := t.connected
	t.connected = false
	t.mu.Unlock()

	t.closeOnce.Do(func() { close(t.closed) })

	if wasConnected {
		t.deliverErr(sagerrs.NewConnectionError(sagerrs.ErrCodeConnectionClosed, "http transport disconnected", nil))
	}

	return nil
}

// Connected reports whether Connect succeeded and Disconnect has not
// been called.
func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.connected
}

// ReceiveMessages returns the transport's inbound stream. Records from
// every invocation arrive on the same channel pair.
func (t *Transport) ReceiveMessages(ctx context.Context) (<-chan map[string]any, <-chan error) {
	t.mu.Lock()
	connected := t.connected
	t.mu.Unlock()

	if !connected {
		msgCh := make(chan map[string]any)
		errCh := make(chan error, 1)
		errCh <- sagerrs.NewNotConnectedError("ReceiveMessages")
		close(errCh)
		close(msgCh)

		return msgCh, errCh
	}

	return t.msgCh, t.errCh
}

// SendElicitationResponse is not supported by the network transport.
func (t *Transport) SendElicitationResponse(ctx context.Context, id, value string) error {
	return sagerrs.NewNetworkError(sagerrs.ErrCodeIOError, "elicitation responses are not supported by the http transport", nil)
}

// Interrupt is not supported by the network transport.
func (t *Transport) Interrupt(ctx context.Context) error {
	return sagerrs.NewNetworkError(sagerrs.ErrCodeIOError, "interrupt is not supported by the http transport", nil)
}

// SendRequest posts one invocation and streams its response into the
// inbound channels. It returns once the response headers arrive; the
// body is consumed in the background and the in-flight slot is released
// when it ends.
func (t *Transport) SendRequest(ctx context.Context, records []map[string]any, opts ports.RequestOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	if !t.connected {
		t.mu.Unlock()

		return sagerrs.NewNotConnectedError("SendRequest")
	}
	if t.inFlight {
		t.mu.Unlock()

		return sagerrs.NewNetworkError(sagerrs.ErrCodeRequestInFlight, "another request is already in progress", nil)
	}
	t.inFlight = true
	t.mu.Unlock()

	resp, err := t.post(ctx, records, opts)
	if err != nil {
		t.release()

		return err
	}

	go t.streamResponse(resp.Body)

	return nil
}

func (t *Transport) release() {
	t.mu.Lock()
	t.inFlight = false
	t.mu.Unlock()
}

// streamResponse decodes the concatenated JSON documents of one
// response body into the inbound stream.
func (t *Transport) streamResponse(body io.ReadCloser) {
	defer t.release()
	defer func() { _ = body.Close() }()

	dec := json.NewDecoder(body)
	for {
		var record map[string]any
		err := dec.Decode(&record)
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			select {
			case <-t.closed:
			default:
				t.deliverErr(sagerrs.NewDecodeError(sagerrs.ErrCodeMessageParseFailed, "decoding response body", err))
			}

			return
		}

		select {
		case t.msgCh <- record:
		case <-t.closed:
			return
		}
	}
}

// deliverErr places one terminal error on the error channel without
// blocking; later errors are dropped in favor of the first.
func (t *Transport) deliverErr(err error) {
	select {
	case t.errCh <- err:
	default:
		t.logger.Debug("dropping transport error, one already pending", "error", err)
	}
}

func httpStatusError(status int, url string) error {
	err := sagerrs.NewNetworkError(
		sagerrs.ErrCodeHTTPStatus,
		fmt.Sprintf("HTTP Error: %d %s", status, http.StatusText(status)),
		nil,
	)

	return err.WithStatus(status).WithURL(url)
}
